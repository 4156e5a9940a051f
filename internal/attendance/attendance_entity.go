package attendance

import (
	"time"

	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/geo"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// State of a record for one employee and one calendar day. Transitions run
// forward only: NotStarted -> CheckedIn -> CheckedOut, terminal.
type State string

const (
	StateNotStarted State = "NOT_STARTED"
	StateCheckedIn  State = "CHECKED_IN"
	StateCheckedOut State = "CHECKED_OUT"
)

type Attendance struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	EmployeeID     uuid.UUID `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_attendance_employee_date"`
	AttendanceDate time.Time `gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_attendance_employee_date"`

	CheckInTime      *time.Time `gorm:"column:check_in_time;type:timestamptz"`
	CheckInLatitude  *float64   `gorm:"column:check_in_latitude"`
	CheckInLongitude *float64   `gorm:"column:check_in_longitude"`
	CheckInAccuracy  *float64   `gorm:"column:check_in_accuracy"`
	CheckInPhotoURL  *string    `gorm:"column:check_in_photo_url;type:text"`

	CheckOutTime      *time.Time `gorm:"column:check_out_time;type:timestamptz"`
	CheckOutLatitude  *float64   `gorm:"column:check_out_latitude"`
	CheckOutLongitude *float64   `gorm:"column:check_out_longitude"`
	CheckOutAccuracy  *float64   `gorm:"column:check_out_accuracy"`
	CheckOutPhotoURL  *string    `gorm:"column:check_out_photo_url;type:text"`

	TotalHours    *float64 `gorm:"column:total_hours"`
	OvertimeHours *float64 `gorm:"column:overtime_hours"`
	AutoClosed    bool     `gorm:"column:auto_closed;not null;default:false"`

	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`

	Employee *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Attendance) TableName() string {
	return "attendances"
}

// State derives the tagged state once; callers check legality against it
// instead of probing field nullity.
func (a *Attendance) State() State {
	switch {
	case a == nil || a.CheckInTime == nil:
		return StateNotStarted
	case a.CheckOutTime == nil:
		return StateCheckedIn
	default:
		return StateCheckedOut
	}
}

func (a *Attendance) CheckInLocation() *geo.Location {
	if a == nil || a.CheckInLatitude == nil || a.CheckInLongitude == nil {
		return nil
	}
	loc := geo.Location{Latitude: *a.CheckInLatitude, Longitude: *a.CheckInLongitude}
	if a.CheckInAccuracy != nil {
		loc.Accuracy = *a.CheckInAccuracy
	}
	return &loc
}

func (a *Attendance) CheckOutLocation() *geo.Location {
	if a == nil || a.CheckOutLatitude == nil || a.CheckOutLongitude == nil {
		return nil
	}
	loc := geo.Location{Latitude: *a.CheckOutLatitude, Longitude: *a.CheckOutLongitude}
	if a.CheckOutAccuracy != nil {
		loc.Accuracy = *a.CheckOutAccuracy
	}
	return &loc
}

type EmployeeRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}
