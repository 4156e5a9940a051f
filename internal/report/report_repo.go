package report

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=report_repo.go -destination=mock/report_repo_mock.go -package=mock
type Repository interface {
	FindRecords(ctx context.Context, from, to time.Time, employeeID string) ([]Record, error)
	CountEmployees(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindRecords(ctx context.Context, from, to time.Time, employeeID string) ([]Record, error) {
	q := r.db.WithContext(ctx).
		Table("attendances AS a").
		Select(`a.id, a.employee_id, e.full_name, e.employee_number, a.attendance_date,
			a.check_in_time, a.check_in_latitude, a.check_in_longitude, a.check_in_photo_url,
			a.check_out_time, a.check_out_latitude, a.check_out_longitude, a.check_out_photo_url,
			a.total_hours, a.overtime_hours, a.auto_closed,
			e.work_latitude, e.work_longitude, a.created_at`).
		Joins("JOIN employees e ON e.id = a.employee_id").
		Where("a.deleted_at IS NULL").
		Where("a.attendance_date >= ? AND a.attendance_date <= ?", from, to).
		Order("a.created_at DESC")

	if employeeID != "" {
		q = q.Where("a.employee_id = ?", employeeID)
	}

	var rows []Record
	err := q.Find(&rows).Error
	return rows, err
}

func (r *repository) CountEmployees(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count, err
}
