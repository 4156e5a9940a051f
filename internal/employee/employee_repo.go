package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindOptions(ctx context.Context) ([]Employee, error)
	GetWorkStation(ctx context.Context, stationID string) (*WorkStationRef, error)
	Update(ctx context.Context, empl *Employee) error
	Delete(ctx context.Context, id string) error
	DeleteAttendanceByEmployee(ctx context.Context, employeeID string) error
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

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Create(empl).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.db.WithContext(ctx).
		Preload("WorkStation").
		Order("full_name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).
		Preload("WorkStation").
		First(&empl, "id = ?", id).Error
	return &empl, err
}

func (r *repository) FindOptions(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.db.WithContext(ctx).
		Select("id", "employee_number", "full_name", "role").
		Where("role = ?", "employee").
		Order("full_name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) GetWorkStation(ctx context.Context, stationID string) (*WorkStationRef, error) {
	var ws WorkStationRef
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		First(&ws, "id = ?", stationID).Error
	return &ws, err
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Save(empl).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Employee{}, "id = ?", id).Error
}

// DeleteAttendanceByEmployee removes the employee's attendance history.
// Deleting an employee is destructive and irreversible, matching the admin
// contract.
func (r *repository) DeleteAttendanceByEmployee(ctx context.Context, employeeID string) error {
	return r.db.WithContext(ctx).Exec(
		`DELETE FROM attendances WHERE employee_id = ?`, employeeID,
	).Error
}
