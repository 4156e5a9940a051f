package report

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DashboardStatsCacheKey is invalidated by the attendance engine whenever a
// session opens or closes.
const DashboardStatsCacheKey = "reports:dashboard:stats"

const dashboardStatsTTL = time.Minute

// csvHeaders matches the admin export column set exactly.
var csvHeaders = []string{
	"Employee Name",
	"Employee ID",
	"Date",
	"Check In",
	"Check Out",
	"Total Hours",
	"Overtime",
	"Status",
	"Check In Location",
	"Check Out Location",
	"Check In Selfie URL",
	"Check Out Selfie URL",
}

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	Range(ctx context.Context, from, to time.Time, employeeID string) (ReportResponse, error)
	ExportCSV(ctx context.Context, w io.Writer, from, to time.Time, employeeID string) error
	Dashboard(ctx context.Context) (DashboardStats, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	loc    *time.Location
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceInZone(repo, rdb, time.UTC, logger...)
}

// NewServiceInZone fixes the wall-clock zone for the late rule and the
// rendered clock times. Records are stored in UTC; a 09:30 check-in in
// Kolkata is late only when evaluated in Kolkata time.
func NewServiceInZone(repo Repository, rdb *redis.Client, loc *time.Location, logger ...*zap.Logger) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{repo: repo, rdb: rdb, sf: &singleflight.Group{}, loc: loc, logger: l}
}

func (s *service) Range(ctx context.Context, from, to time.Time, employeeID string) (ReportResponse, error) {
	records, err := s.repo.FindRecords(ctx, from, to, employeeID)
	if err != nil {
		s.logger.Error("report range query failed", zap.Error(err))
		return ReportResponse{}, err
	}

	rows := make([]ReportRow, len(records))
	for i, rec := range records {
		rows[i] = s.mapToRow(rec)
	}
	return ReportResponse{Rows: rows, Summary: Summarize(records)}, nil
}

func (s *service) ExportCSV(ctx context.Context, w io.Writer, from, to time.Time, employeeID string) error {
	records, err := s.repo.FindRecords(ctx, from, to, employeeID)
	if err != nil {
		s.logger.Error("report export query failed", zap.Error(err))
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeaders); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write(s.csvRow(rec)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *service) Dashboard(ctx context.Context) (DashboardStats, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, DashboardStatsCacheKey).Result(); err == nil {
			var stats DashboardStats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return stats, nil
			}
		}
	}

	v, err, _ := s.sf.Do(DashboardStatsCacheKey, func() (interface{}, error) {
		stats, err := s.computeDashboard(ctx)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(stats); err == nil {
				s.rdb.Set(ctx, DashboardStatsCacheKey, jsonData, dashboardStatsTTL)
			}
		}
		return stats, nil
	})
	if err != nil {
		return DashboardStats{}, err
	}
	return v.(DashboardStats), nil
}

func (s *service) computeDashboard(ctx context.Context) (DashboardStats, error) {
	total, err := s.repo.CountEmployees(ctx)
	if err != nil {
		s.logger.Error("dashboard employee count failed", zap.Error(err))
		return DashboardStats{}, err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	records, err := s.repo.FindRecords(ctx, today, today, "")
	if err != nil {
		s.logger.Error("dashboard attendance query failed", zap.Error(err))
		return DashboardStats{}, err
	}

	stats := DashboardStats{TotalEmployees: total}
	for _, rec := range records {
		if rec.CheckInTime == nil {
			continue
		}
		stats.PresentToday++
		if IsLate(rec.CheckInTime.In(s.loc)) {
			stats.LateToday++
		}
		if rec.CheckOutTime == nil {
			stats.MissingCheckout++
		}
	}
	return stats, nil
}

func (s *service) mapToRow(rec Record) ReportRow {
	row := ReportRow{
		ID:             rec.ID.String(),
		EmployeeID:     rec.EmployeeID.String(),
		EmployeeName:   rec.EmployeeName,
		EmployeeNumber: rec.EmployeeNumber,
		Date:           rec.AttendanceDate.Format("2006-01-02"),
		TotalHours:     rec.TotalHours,
		OvertimeHours:  rec.OvertimeHours,
		Status:         Classify(rec, rec.WorkReference()),
		AutoClosed:     rec.AutoClosed,
	}
	if rec.CheckInTime != nil {
		v := rec.CheckInTime.In(s.loc).Format(time.RFC3339)
		row.CheckInTime = &v
		row.Late = IsLate(rec.CheckInTime.In(s.loc))
	}
	if rec.CheckOutTime != nil {
		v := rec.CheckOutTime.In(s.loc).Format(time.RFC3339)
		row.CheckOutTime = &v
	}
	return row
}

func (s *service) csvRow(rec Record) []string {
	return []string{
		rec.EmployeeName,
		rec.EmployeeNumber,
		rec.AttendanceDate.UTC().Format("2006-01-02"),
		clockOrDash(rec.CheckInTime, s.loc),
		clockOrDash(rec.CheckOutTime, s.loc),
		hoursOrZero(rec.TotalHours),
		hoursOrZero(rec.OvertimeHours),
		string(Classify(rec, rec.WorkReference())),
		coordsOrDash(rec.CheckInLatitude, rec.CheckInLongitude),
		coordsOrDash(rec.CheckOutLatitude, rec.CheckOutLongitude),
		urlOrDash(rec.CheckInPhotoURL),
		urlOrDash(rec.CheckOutPhotoURL),
	}
}

func clockOrDash(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "-"
	}
	return t.In(loc).Format("15:04")
}

func hoursOrZero(v *float64) string {
	if v == nil {
		return "0"
	}
	return fmt.Sprintf("%.2f", *v)
}

func coordsOrDash(lat, long *float64) string {
	if lat == nil || long == nil {
		return "-"
	}
	return fmt.Sprintf("%v,%v", *lat, *long)
}

func urlOrDash(u *string) string {
	if u == nil || *u == "" {
		return "-"
	}
	return *u
}
