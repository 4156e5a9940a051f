package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	emplerrors "github.com/VISWAJIT-PS/fieldtrack-pro/internal/employee/errors"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/events"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/messaging/kafka"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/shared/contextutil"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const EmployeeOptionsCacheKey = "employees:options"

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counter counter.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, counter, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		outbox:  outboxRepo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("full_name", req.FullName),
		zap.String("work_station_id", req.WorkStationID),
	)

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		s.logger.Warn("create employee invalid date_of_birth",
			zap.String("date_of_birth", req.DateOfBirth),
			zap.Error(err),
		)
		return EmployeeResponse{}, emplerrors.ErrInvalidDateOfBirth
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if req.EmployeeNumber == "" {
		nextVal, err := s.counter.GetNextValue(ctx, "employee_number")
		if err != nil {
			s.logger.Error("create employee generate number failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		req.EmployeeNumber = fmt.Sprintf("EMP-%06d", nextVal)
	}

	role := req.Role
	if role == "" {
		role = "employee"
	}

	empl := &Employee{
		ID:             uuid.New(),
		EmployeeNumber: strings.TrimSpace(req.EmployeeNumber),
		FullName:       strings.TrimSpace(req.FullName),
		DateOfBirth:    dob,
		Phone:          req.Phone,
		Role:           role,
	}

	if req.WorkStationID != "" {
		if err := s.assignWorkStation(ctx, qtx, empl, req.WorkStationID); err != nil {
			return EmployeeResponse{}, err
		}
	}

	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	event := events.EmployeeCreatedEvent{
		EventType:      "employee_created",
		RequestID:      rid,
		EmployeeID:     empl.ID.String(),
		EmployeeNumber: empl.EmployeeNumber,
		OccurredAt:     time.Now().UTC(),
	}
	if s.outbox != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return EmployeeResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "employee",
			AggregateID:   empl.ID.String(),
			EventType:     event.EventType,
			Topic:         events.EmployeeCreatedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("create employee outbox persist failed",
				zap.String("employee_id", empl.ID.String()),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx)

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
		zap.String("employee_number", empl.EmployeeNumber),
	)

	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested")
	empls, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(empls), nil
}

func (s *service) GetOptions(ctx context.Context) ([]EmployeeResponse, error) {
	cacheKey := EmployeeOptionsCacheKey

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// Collapse concurrent cache misses when the admin roster view loads
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		emps, err := s.repo.FindOptions(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(emps)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested", zap.String("employee_id", id))
	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("get employee by id failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested",
		zap.String("employee_id", id),
		zap.String("work_station_id", req.WorkStationID),
	)

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		s.logger.Warn("update employee invalid date_of_birth",
			zap.String("date_of_birth", req.DateOfBirth),
			zap.Error(err),
		)
		return EmployeeResponse{}, emplerrors.ErrInvalidDateOfBirth
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("update employee fetch existing failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	empl.EmployeeNumber = strings.TrimSpace(req.EmployeeNumber)
	empl.FullName = strings.TrimSpace(req.FullName)
	empl.DateOfBirth = dob
	empl.Phone = req.Phone
	if req.Role != "" {
		empl.Role = req.Role
	}

	switch {
	case req.WorkStationID == "":
		empl.WorkStationID = nil
		empl.WorkLatitude = nil
		empl.WorkLongitude = nil
		empl.WorkLocationSyncedAt = nil
		empl.WorkStation = nil
	case empl.WorkStationID == nil || empl.WorkStationID.String() != req.WorkStationID:
		if err := s.assignWorkStation(ctx, qtx, empl, req.WorkStationID); err != nil {
			return EmployeeResponse{}, err
		}
	}

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx)

	s.logger.Info("update employee success", zap.String("employee_id", id))

	return mapToResponse(*empl), nil
}

// Delete removes the employee together with their attendance history in a
// single transaction.
func (s *service) Delete(ctx context.Context, id string) error {
	s.logger.Debug("delete employee requested", zap.String("employee_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		s.logger.Error("delete employee fetch existing failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := qtx.DeleteAttendanceByEmployee(ctx, id); err != nil {
		s.logger.Error("delete employee attendance cleanup failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employee commit failed", zap.Error(err))
		return err
	}

	s.invalidateOptionsCache(ctx)

	s.logger.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

// assignWorkStation snapshots the station coordinates onto the employee row
// so presence checks never need a join at check-in time.
func (s *service) assignWorkStation(ctx context.Context, qtx Repository, empl *Employee, stationID string) error {
	ws, err := qtx.GetWorkStation(ctx, stationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("assign work station not found", zap.String("work_station_id", stationID))
			return emplerrors.ErrWorkStationNotFound
		}
		s.logger.Error("assign work station lookup failed", zap.Error(err))
		return err
	}

	now := time.Now().UTC()
	empl.WorkStationID = &ws.ID
	empl.WorkLatitude = &ws.Latitude
	empl.WorkLongitude = &ws.Longitude
	empl.WorkLocationSyncedAt = &now
	empl.WorkStation = ws
	return nil
}

func (s *service) invalidateOptionsCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, EmployeeOptionsCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", EmployeeOptionsCacheKey),
		)
	}
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return emplerrors.ErrEmployeeNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return emplerrors.ErrEmployeeNumberAlreadyExists
	}
	return err
}

func mapToResponse(empl Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             empl.ID.String(),
		EmployeeNumber: empl.EmployeeNumber,
		FullName:       empl.FullName,
		DateOfBirth:    empl.DateOfBirth.Format("2006-01-02"),
		Phone:          empl.Phone,
		Role:           empl.Role,
		WorkLatitude:   empl.WorkLatitude,
		WorkLongitude:  empl.WorkLongitude,
	}
	if empl.WorkStationID != nil {
		resp.WorkStationID = empl.WorkStationID.String()
	}
	if empl.WorkLocationSyncedAt != nil {
		resp.WorkLocationSyncedAt = empl.WorkLocationSyncedAt.UTC().Format(time.RFC3339)
	}
	if !empl.CreatedAt.IsZero() {
		resp.CreatedAt = empl.CreatedAt.UTC().Format(time.RFC3339)
	}
	if empl.WorkStation != nil {
		resp.WorkStation = &EmployeeWorkStationResponse{
			ID:        empl.WorkStation.ID.String(),
			Name:      empl.WorkStation.Name,
			Latitude:  empl.WorkStation.Latitude,
			Longitude: empl.WorkStation.Longitude,
		}
	}
	return resp
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}
