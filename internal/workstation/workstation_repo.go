package workstation

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=workstation_repo.go -destination=mock/workstation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, ws *WorkStation) error
	FindAll(ctx context.Context) ([]WorkStation, error)
	FindByID(ctx context.Context, id string) (*WorkStation, error)
	Update(ctx context.Context, ws *WorkStation) error
	Delete(ctx context.Context, id string) error
	ResyncEmployeeLocations(ctx context.Context, ws *WorkStation) error
	CountAssignedEmployees(ctx context.Context, id string) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, ws *WorkStation) error {
	return r.db.WithContext(ctx).Create(ws).Error
}

func (r *repository) FindAll(ctx context.Context) ([]WorkStation, error) {
	var stations []WorkStation
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&stations).Error
	return stations, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*WorkStation, error) {
	var ws WorkStation
	err := r.db.WithContext(ctx).First(&ws, "id = ?", id).Error
	return &ws, err
}

func (r *repository) Update(ctx context.Context, ws *WorkStation) error {
	return r.db.WithContext(ctx).Save(ws).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&WorkStation{}, "id = ?", id).Error
}

// ResyncEmployeeLocations refreshes the denormalized coordinates of every
// employee assigned to the station after the station moved.
func (r *repository) ResyncEmployeeLocations(ctx context.Context, ws *WorkStation) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE employees
		SET work_latitude = ?,
		    work_longitude = ?,
		    work_location_synced_at = now(),
		    updated_at = now()
		WHERE work_station_id = ?
		  AND deleted_at IS NULL
	`, ws.Latitude, ws.Longitude, ws.ID).Error
}

func (r *repository) CountAssignedEmployees(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("work_station_id = ?", id).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count, err
}
