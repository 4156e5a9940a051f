package events

import "time"

const AttendanceClosedTopic = "fieldtrack.attendance.closed"

// AttendanceClosedEvent is published when a record reaches its terminal
// state, by manual check-out or by the auto-checkout sweeper. Downstream
// payroll consumes it.
type AttendanceClosedEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id,omitempty"`
	AttendanceID  string    `json:"attendance_id"`
	EmployeeID    string    `json:"employee_id"`
	CheckInTime   time.Time `json:"check_in_time"`
	CheckOutTime  time.Time `json:"check_out_time"`
	TotalHours    float64   `json:"total_hours"`
	OvertimeHours float64   `json:"overtime_hours"`
	AutoClosed    bool      `json:"auto_closed"`
	OccurredAt    time.Time `json:"occurred_at"`
}
