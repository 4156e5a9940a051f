package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"time"

	atterrors "github.com/VISWAJIT-PS/fieldtrack-pro/internal/attendance/errors"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/auth"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/events"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/geo"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/gps"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/messaging/kafka"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/report"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/selfie"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StandardWorkingHours is the daily baseline; anything beyond counts as
// overtime, subject to the presence gate.
const StandardWorkingHours = 8.0

// AutoCheckoutAfter is the hard session cap. It sits above the standard so
// up to an hour of overtime accrues before the sweeper closes the session.
// Var-level; app wiring may tune it at startup before any session runs.
var AutoCheckoutAfter = 9 * time.Hour

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, session auth.Session, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, session auth.Session, req CheckOutRequest) (AttendanceResponse, error)
	AutoCheckout(ctx context.Context, employeeID string, now time.Time) (bool, error)
	Today(ctx context.Context, session auth.Session) (AttendanceResponse, error)
	History(ctx context.Context, session auth.Session, from, to time.Time) ([]AttendanceResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	uploader selfie.Uploader
	gps      gps.Provider
	outbox   kafka.OutboxRepository
	rdb      *redis.Client
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(
	db *sql.DB,
	repo Repository,
	uploader selfie.Uploader,
	gpsProvider gps.Provider,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		uploader: uploader,
		gps:      gpsProvider,
		outbox:   outboxRepo,
		rdb:      rdb,
		logger:   l,
		now:      time.Now,
	}
}

func (s *service) CheckIn(ctx context.Context, session auth.Session, req CheckInRequest) (AttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("check-in requested",
		zap.String("request_id", rid),
		zap.String("employee_id", session.EmployeeID),
	)

	if req.Location == nil {
		return AttendanceResponse{}, atterrors.ErrLocationRequired
	}
	if req.Selfie == nil {
		return AttendanceResponse{}, atterrors.ErrSelfieRequired
	}

	employeeID, err := uuid.Parse(session.EmployeeID)
	if err != nil {
		s.logger.Warn("check-in with malformed employee id", zap.String("request_id", rid))
		return AttendanceResponse{}, atterrors.ErrInvalidEmployeeID
	}

	now := s.now().UTC()
	today := now.Truncate(24 * time.Hour)

	// Cheap pre-check so a duplicate attempt never hits the blob store
	existing, err := s.repo.FindByEmployeeAndDate(ctx, session.EmployeeID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}
	if existing.State() != StateNotStarted {
		return AttendanceResponse{}, atterrors.ErrAlreadyCheckedIn
	}

	// Upload before the tx. An orphaned blob after a failed write is
	// acceptable garbage, a committed record without its selfie is not.
	photoURL, err := s.uploader.Upload(ctx, selfie.ObjectPath(session.EmployeeID, selfie.KindCheckIn, now), req.Selfie)
	if err != nil {
		s.logger.Error("check-in selfie upload failed", zap.String("request_id", rid), zap.Error(err))
		return AttendanceResponse{}, atterrors.ErrSelfieUploadFailed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("check-in begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Re-check inside the tx; the unique index on employee+date backstops a
	// race between two instances.
	existing, err = qtx.FindByEmployeeAndDate(ctx, session.EmployeeID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}
	if existing.State() != StateNotStarted {
		return AttendanceResponse{}, atterrors.ErrAlreadyCheckedIn
	}

	rec := &Attendance{
		ID:               uuid.New(),
		EmployeeID:       employeeID,
		AttendanceDate:   today,
		CheckInTime:      &now,
		CheckInLatitude:  &req.Location.Latitude,
		CheckInLongitude: &req.Location.Longitude,
		CheckInPhotoURL:  &photoURL,
	}
	if req.Location.Accuracy > 0 {
		rec.CheckInAccuracy = &req.Location.Accuracy
	}

	if err := qtx.Create(ctx, rec); err != nil {
		s.logger.Error("check-in persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("check-in commit failed", zap.String("request_id", rid), zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.invalidateDashboardCache(ctx)

	s.logger.Info("check-in success",
		zap.String("request_id", rid),
		zap.String("employee_id", session.EmployeeID),
		zap.String("attendance_id", rec.ID.String()),
	)
	return mapToResponse(*rec), nil
}

func (s *service) CheckOut(ctx context.Context, session auth.Session, req CheckOutRequest) (AttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("check-out requested",
		zap.String("request_id", rid),
		zap.String("employee_id", session.EmployeeID),
	)

	if req.Location == nil {
		return AttendanceResponse{}, atterrors.ErrLocationRequired
	}
	if req.Selfie == nil {
		return AttendanceResponse{}, atterrors.ErrSelfieRequired
	}

	now := s.now().UTC()
	today := now.Truncate(24 * time.Hour)

	existing, err := s.repo.FindByEmployeeAndDate(ctx, session.EmployeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, atterrors.ErrNoCheckInFound
		}
		return AttendanceResponse{}, err
	}
	switch existing.State() {
	case StateNotStarted:
		return AttendanceResponse{}, atterrors.ErrNoCheckInFound
	case StateCheckedOut:
		return AttendanceResponse{}, atterrors.ErrAlreadyCheckedOut
	}

	photoURL, err := s.uploader.Upload(ctx, selfie.ObjectPath(session.EmployeeID, selfie.KindCheckOut, now), req.Selfie)
	if err != nil {
		s.logger.Error("check-out selfie upload failed", zap.String("request_id", rid), zap.Error(err))
		return AttendanceResponse{}, atterrors.ErrSelfieUploadFailed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("check-out begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rec, err := qtx.FindByEmployeeAndDate(ctx, session.EmployeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, atterrors.ErrNoCheckInFound
		}
		return AttendanceResponse{}, err
	}
	switch rec.State() {
	case StateNotStarted:
		return AttendanceResponse{}, atterrors.ErrNoCheckInFound
	case StateCheckedOut:
		return AttendanceResponse{}, atterrors.ErrAlreadyCheckedOut
	}

	ref, err := s.workReference(ctx, qtx, session.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, err
	}

	s.close(rec, now, *req.Location, &photoURL, ref, false)

	if err := qtx.Update(ctx, rec); err != nil {
		s.logger.Error("check-out persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	if err := s.queueClosedEvent(ctx, tx, rid, rec); err != nil {
		return AttendanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("check-out commit failed", zap.String("request_id", rid), zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.invalidateDashboardCache(ctx)

	s.logger.Info("check-out success",
		zap.String("request_id", rid),
		zap.String("employee_id", session.EmployeeID),
		zap.String("attendance_id", rec.ID.String()),
		zap.Float64("total_hours", *rec.TotalHours),
		zap.Float64("overtime_hours", *rec.OvertimeHours),
	)
	return mapToResponse(*rec), nil
}

// AutoCheckout closes the employee's open session once it has run past the
// cap. A second invocation after the close is a no-op. Unlike the manual
// path it must never get stuck: no fresh fix means falling back to the
// check-in fix, and no selfie is recorded.
func (s *service) AutoCheckout(ctx context.Context, employeeID string, now time.Time) (bool, error) {
	now = now.UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("auto-checkout begin tx failed", zap.Error(err))
		return false, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rec, err := qtx.FindOpenByEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if rec.State() != StateCheckedIn {
		return false, nil
	}
	if now.Sub(rec.CheckInTime.UTC()) <= AutoCheckoutAfter {
		return false, nil
	}

	out := s.checkoutFix(ctx, rec)
	if out == nil {
		// No check-in fix either; nothing usable to close with, which
		// cannot happen for records written by CheckIn.
		out = &geo.Location{}
	}

	ref, err := s.workReference(ctx, qtx, employeeID)
	if err != nil {
		return false, err
	}

	s.close(rec, now, *out, nil, ref, true)

	if err := qtx.Update(ctx, rec); err != nil {
		s.logger.Error("auto-checkout persist failed", zap.Error(err))
		return false, err
	}

	if err := s.queueClosedEvent(ctx, tx, contextutil.GetRequestID(ctx), rec); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("auto-checkout commit failed", zap.Error(err))
		return false, err
	}

	s.invalidateDashboardCache(ctx)

	s.logger.Info("auto-checkout closed session",
		zap.String("employee_id", employeeID),
		zap.String("attendance_id", rec.ID.String()),
		zap.Float64("total_hours", *rec.TotalHours),
		zap.Float64("overtime_hours", *rec.OvertimeHours),
	)
	return true, nil
}

func (s *service) Today(ctx context.Context, session auth.Session) (AttendanceResponse, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)

	rec, err := s.repo.FindByEmployeeAndDate(ctx, session.EmployeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{State: StateNotStarted}, nil
		}
		s.logger.Error("today lookup failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	return mapToResponse(*rec), nil
}

func (s *service) History(ctx context.Context, session auth.Session, from, to time.Time) ([]AttendanceResponse, error) {
	rows, err := s.repo.FindByEmployeeAndRange(ctx, session.EmployeeID, from, to)
	if err != nil {
		s.logger.Error("history lookup failed", zap.Error(err))
		return nil, err
	}

	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

// close finalizes the record in place. Total hours are always recorded;
// overtime only accrues when the presence gate holds.
func (s *service) close(rec *Attendance, at time.Time, out geo.Location, photoURL *string, ref *geo.Location, auto bool) {
	hours := at.Sub(rec.CheckInTime.UTC()).Hours()
	overtime := 0.0
	if presenceGate(rec, ref, out) {
		overtime = math.Max(0, hours-StandardWorkingHours)
	}

	rec.CheckOutTime = &at
	rec.CheckOutLatitude = &out.Latitude
	rec.CheckOutLongitude = &out.Longitude
	if out.Accuracy > 0 {
		rec.CheckOutAccuracy = &out.Accuracy
	}
	rec.CheckOutPhotoURL = photoURL
	rec.TotalHours = &hours
	rec.OvertimeHours = &overtime
	rec.AutoClosed = auto
}

// presenceGate is the overtime condition. With a work station both fixes
// must fall within the work-location radius of it; without one the checkout
// fix must land near the check-in fix at the tighter match radius.
func presenceGate(rec *Attendance, ref *geo.Location, out geo.Location) bool {
	if ref != nil {
		return geo.IsPresentAt(rec.CheckInLocation(), ref, geo.WorkLocationRadiusMeters) &&
			geo.IsPresentAt(&out, ref, geo.WorkLocationRadiusMeters)
	}
	return geo.IsPresentAt(&out, rec.CheckInLocation(), geo.LocationMatchRadiusMeters)
}

// checkoutFix picks the auto-checkout location: a fresh fix when the
// provider has one, otherwise the original check-in fix.
func (s *service) checkoutFix(ctx context.Context, rec *Attendance) *geo.Location {
	if s.gps != nil {
		loc, err := s.gps.CurrentLocation(ctx, gps.DefaultOptions())
		if err == nil {
			return &loc
		}
		if !gps.IsUnavailable(err) {
			s.logger.Warn("auto-checkout gps error, falling back to check-in fix", zap.Error(err))
		}
	}
	return rec.CheckInLocation()
}

func (s *service) workReference(ctx context.Context, qtx Repository, employeeID string) (*geo.Location, error) {
	ref, err := qtx.GetEmployeeWorkRef(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("work reference lookup failed", zap.Error(err))
		return nil, err
	}
	if ref.WorkLatitude == nil || ref.WorkLongitude == nil {
		return nil, nil
	}
	return &geo.Location{Latitude: *ref.WorkLatitude, Longitude: *ref.WorkLongitude}, nil
}

func (s *service) queueClosedEvent(ctx context.Context, tx *sql.Tx, rid string, rec *Attendance) error {
	if s.outbox == nil {
		return nil
	}

	event := events.AttendanceClosedEvent{
		EventType:     "attendance_closed",
		RequestID:     rid,
		AttendanceID:  rec.ID.String(),
		EmployeeID:    rec.EmployeeID.String(),
		CheckInTime:   rec.CheckInTime.UTC(),
		CheckOutTime:  rec.CheckOutTime.UTC(),
		TotalHours:    *rec.TotalHours,
		OvertimeHours: *rec.OvertimeHours,
		AutoClosed:    rec.AutoClosed,
		OccurredAt:    time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	outboxRepo := s.outbox.WithTx(tx)
	if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "attendance",
		AggregateID:   rec.ID.String(),
		EventType:     event.EventType,
		Topic:         events.AttendanceClosedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("attendance outbox persist failed",
			zap.String("attendance_id", rec.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) invalidateDashboardCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, report.DashboardStatsCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate dashboard stats cache",
			zap.Error(err),
			zap.String("key", report.DashboardStatsCacheKey),
		)
	}
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:                a.ID.String(),
		EmployeeID:        a.EmployeeID.String(),
		AttendanceDate:    a.AttendanceDate.Format("2006-01-02"),
		State:             a.State(),
		CheckInLatitude:   a.CheckInLatitude,
		CheckInLongitude:  a.CheckInLongitude,
		CheckInPhotoURL:   a.CheckInPhotoURL,
		CheckOutLatitude:  a.CheckOutLatitude,
		CheckOutLongitude: a.CheckOutLongitude,
		CheckOutPhotoURL:  a.CheckOutPhotoURL,
		TotalHours:        a.TotalHours,
		OvertimeHours:     a.OvertimeHours,
		AutoClosed:        a.AutoClosed,
	}
	if a.Employee != nil {
		resp.EmployeeName = a.Employee.FullName
	}
	if a.CheckInTime != nil {
		v := a.CheckInTime.UTC().Format(time.RFC3339)
		resp.CheckInTime = &v
	}
	if a.CheckOutTime != nil {
		v := a.CheckOutTime.UTC().Format(time.RFC3339)
		resp.CheckOutTime = &v
	}
	return resp
}
