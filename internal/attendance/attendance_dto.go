package attendance

import (
	"io"

	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/geo"
)

// CheckInRequest carries the fix and the selfie blob taken at the moment of
// the action. The handler assembles it from the multipart form.
type CheckInRequest struct {
	Location *geo.Location
	Selfie   io.Reader
}

type CheckOutRequest struct {
	Location *geo.Location
	Selfie   io.Reader
}

type AttendanceResponse struct {
	ID             string  `json:"id,omitempty"`
	EmployeeID     string  `json:"employee_id,omitempty"`
	EmployeeName   string  `json:"employee_name,omitempty"`
	AttendanceDate string  `json:"attendance_date,omitempty"`
	State          State   `json:"state"`

	CheckInTime      *string  `json:"check_in_time,omitempty"`
	CheckInLatitude  *float64 `json:"check_in_latitude,omitempty"`
	CheckInLongitude *float64 `json:"check_in_longitude,omitempty"`
	CheckInPhotoURL  *string  `json:"check_in_photo_url,omitempty"`

	CheckOutTime      *string  `json:"check_out_time,omitempty"`
	CheckOutLatitude  *float64 `json:"check_out_latitude,omitempty"`
	CheckOutLongitude *float64 `json:"check_out_longitude,omitempty"`
	CheckOutPhotoURL  *string  `json:"check_out_photo_url,omitempty"`

	TotalHours    *float64 `json:"total_hours,omitempty"`
	OvertimeHours *float64 `json:"overtime_hours,omitempty"`
	AutoClosed    bool     `json:"auto_closed,omitempty"`
}
