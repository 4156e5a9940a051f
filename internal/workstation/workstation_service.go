package workstation

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	wserrors "github.com/VISWAJIT-PS/fieldtrack-pro/internal/workstation/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=workstation_service.go -destination=mock/workstation_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateWorkStationRequest) (WorkStationResponse, error)
	GetAll(ctx context.Context) ([]WorkStationResponse, error)
	GetByID(ctx context.Context, id string) (WorkStationResponse, error)
	Update(ctx context.Context, id string, req UpdateWorkStationRequest) (WorkStationResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("workstation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("workstation.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateWorkStationRequest) (WorkStationResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return WorkStationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ws := &WorkStation{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	}

	if err := qtx.Create(ctx, ws); err != nil {
		s.logger.Error("create work station persist failed", zap.Error(err))
		return WorkStationResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return WorkStationResponse{}, err
	}

	s.logger.Info("create work station success", zap.String("work_station_id", ws.ID.String()))
	return mapToResponse(*ws), nil
}

func (s *service) GetAll(ctx context.Context) ([]WorkStationResponse, error) {
	stations, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all work stations failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	res := make([]WorkStationResponse, len(stations))
	for i, ws := range stations {
		res[i] = mapToResponse(ws)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (WorkStationResponse, error) {
	ws, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return WorkStationResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*ws), nil
}

// Update also resynchronizes the denormalized work location copy on every
// assigned employee when the coordinates change.
func (s *service) Update(ctx context.Context, id string, req UpdateWorkStationRequest) (WorkStationResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return WorkStationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ws, err := qtx.FindByID(ctx, id)
	if err != nil {
		return WorkStationResponse{}, mapRepositoryError(err)
	}

	moved := ws.Latitude != *req.Latitude || ws.Longitude != *req.Longitude

	ws.Name = strings.TrimSpace(req.Name)
	ws.Latitude = *req.Latitude
	ws.Longitude = *req.Longitude

	if err := qtx.Update(ctx, ws); err != nil {
		s.logger.Error("update work station persist failed", zap.Error(err))
		return WorkStationResponse{}, mapRepositoryError(err)
	}

	if moved {
		if err := qtx.ResyncEmployeeLocations(ctx, ws); err != nil {
			s.logger.Error("resync employee locations failed",
				zap.String("work_station_id", ws.ID.String()),
				zap.Error(err),
			)
			return WorkStationResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return WorkStationResponse{}, err
	}

	if moved {
		s.logger.Info("work station moved, employee locations resynced",
			zap.String("work_station_id", ws.ID.String()),
		)
	}
	return mapToResponse(*ws), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete work station failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("delete work station success", zap.String("work_station_id", id))
	return nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return wserrors.ErrWorkStationNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return wserrors.ErrWorkStationNameTaken
	}
	if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
		return wserrors.ErrWorkStationNameTaken
	}

	return err
}

func mapToResponse(ws WorkStation) WorkStationResponse {
	return WorkStationResponse{
		ID:        ws.ID.String(),
		Name:      ws.Name,
		Latitude:  ws.Latitude,
		Longitude: ws.Longitude,
		CreatedAt: ws.CreatedAt.Format(time.RFC3339),
	}
}
