package report

type ReportRow struct {
	ID             string   `json:"id"`
	EmployeeID     string   `json:"employee_id"`
	EmployeeName   string   `json:"employee_name"`
	EmployeeNumber string   `json:"employee_number"`
	Date           string   `json:"date"`
	CheckInTime    *string  `json:"check_in_time,omitempty"`
	CheckOutTime   *string  `json:"check_out_time,omitempty"`
	TotalHours     *float64 `json:"total_hours,omitempty"`
	OvertimeHours  *float64 `json:"overtime_hours,omitempty"`
	Status         Status   `json:"status"`
	Late           bool     `json:"late"`
	AutoClosed     bool     `json:"auto_closed,omitempty"`
}

type ReportResponse struct {
	Rows    []ReportRow `json:"rows"`
	Summary Summary     `json:"summary"`
}

type DashboardStats struct {
	TotalEmployees  int64 `json:"total_employees"`
	PresentToday    int   `json:"present_today"`
	LateToday       int   `json:"late_today"`
	MissingCheckout int   `json:"missing_checkout"`
}
