package report

import (
	"time"

	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/geo"

	"github.com/google/uuid"
)

// Record is the read-side projection the aggregator works on: one
// attendance row joined with the employee's name, code, and denormalized
// work coordinates.
type Record struct {
	ID             uuid.UUID `gorm:"column:id"`
	EmployeeID     uuid.UUID `gorm:"column:employee_id"`
	EmployeeName   string    `gorm:"column:full_name"`
	EmployeeNumber string    `gorm:"column:employee_number"`
	AttendanceDate time.Time `gorm:"column:attendance_date"`

	CheckInTime      *time.Time `gorm:"column:check_in_time"`
	CheckInLatitude  *float64   `gorm:"column:check_in_latitude"`
	CheckInLongitude *float64   `gorm:"column:check_in_longitude"`
	CheckInPhotoURL  *string    `gorm:"column:check_in_photo_url"`

	CheckOutTime      *time.Time `gorm:"column:check_out_time"`
	CheckOutLatitude  *float64   `gorm:"column:check_out_latitude"`
	CheckOutLongitude *float64   `gorm:"column:check_out_longitude"`
	CheckOutPhotoURL  *string    `gorm:"column:check_out_photo_url"`

	TotalHours    *float64 `gorm:"column:total_hours"`
	OvertimeHours *float64 `gorm:"column:overtime_hours"`
	AutoClosed    bool     `gorm:"column:auto_closed"`

	WorkLatitude  *float64 `gorm:"column:work_latitude"`
	WorkLongitude *float64 `gorm:"column:work_longitude"`

	CreatedAt time.Time `gorm:"column:created_at"`
}

func (r Record) CheckInLocation() *geo.Location {
	if r.CheckInLatitude == nil || r.CheckInLongitude == nil {
		return nil
	}
	return &geo.Location{Latitude: *r.CheckInLatitude, Longitude: *r.CheckInLongitude}
}

func (r Record) CheckOutLocation() *geo.Location {
	if r.CheckOutLatitude == nil || r.CheckOutLongitude == nil {
		return nil
	}
	return &geo.Location{Latitude: *r.CheckOutLatitude, Longitude: *r.CheckOutLongitude}
}

// WorkReference is the employee's registered work location at read time,
// nil when no station is assigned.
func (r Record) WorkReference() *geo.Location {
	if r.WorkLatitude == nil || r.WorkLongitude == nil {
		return nil
	}
	return &geo.Location{Latitude: *r.WorkLatitude, Longitude: *r.WorkLongitude}
}
