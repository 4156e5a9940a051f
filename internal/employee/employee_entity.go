package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	EmployeeNumber string     `gorm:"column:employee_number;type:varchar(20);not null;uniqueIndex:uq_employee_number"`
	FullName       string     `gorm:"column:full_name;type:varchar(255);not null"`
	DateOfBirth    time.Time  `gorm:"column:date_of_birth;type:date;not null"`
	Phone          *string    `gorm:"column:phone;type:varchar(30)"`
	Role           string     `gorm:"column:role;type:varchar(20);not null;default:'employee'"`
	WorkStationID  *uuid.UUID `gorm:"column:work_station_id;type:uuid;index"`

	// Denormalized copy of the station coordinates, refreshed on
	// assignment and whenever the station moves.
	WorkLatitude         *float64   `gorm:"column:work_latitude"`
	WorkLongitude        *float64   `gorm:"column:work_longitude"`
	WorkLocationSyncedAt *time.Time `gorm:"column:work_location_synced_at"`

	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`

	WorkStation *WorkStationRef `gorm:"foreignKey:WorkStationID;references:ID"`
}

func (Employee) TableName() string {
	return "employees"
}

type WorkStationRef struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"column:name"`
	Latitude  float64   `gorm:"column:latitude"`
	Longitude float64   `gorm:"column:longitude"`
}

func (WorkStationRef) TableName() string {
	return "work_stations"
}
