package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkRef is the slice of the employee row the engine needs for the
// presence gate: the denormalized station coordinates, if any.
type WorkRef struct {
	WorkStationID *uuid.UUID `gorm:"column:work_station_id"`
	WorkLatitude  *float64   `gorm:"column:work_latitude"`
	WorkLongitude *float64   `gorm:"column:work_longitude"`
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Attendance) error
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)
	FindByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)
	FindOpenByEmployee(ctx context.Context, employeeID string) (*Attendance, error)
	FindOpenOlderThan(ctx context.Context, cutoff time.Time) ([]Attendance, error)
	GetEmployeeWorkRef(ctx context.Context, employeeID string) (*WorkRef, error)
	Update(ctx context.Context, a *Attendance) error
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

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("attendance_date = ?", date).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) FindByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("attendance_date >= ? AND attendance_date <= ?", from, to).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// FindOpenByEmployee returns the employee's still-open record regardless of
// its calendar day, so a session left open past midnight can still be swept.
func (r *repository) FindOpenByEmployee(ctx context.Context, employeeID string) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("check_in_time IS NOT NULL").
		Where("check_out_time IS NULL").
		Order("check_in_time DESC").
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindOpenOlderThan returns records still checked in whose check-in happened
// before cutoff. The sweeper closes these.
func (r *repository) FindOpenOlderThan(ctx context.Context, cutoff time.Time) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Where("check_in_time IS NOT NULL").
		Where("check_out_time IS NULL").
		Where("check_in_time < ?", cutoff).
		Find(&rows).Error
	return rows, err
}

func (r *repository) GetEmployeeWorkRef(ctx context.Context, employeeID string) (*WorkRef, error) {
	var ref WorkRef
	err := r.db.WithContext(ctx).
		Table("employees").
		Select("work_station_id", "work_latitude", "work_longitude").
		Where("id = ?", employeeID).
		Where("deleted_at IS NULL").
		Take(&ref).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *repository) Update(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Save(a).Error
}
