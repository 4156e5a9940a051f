package employee

type CreateEmployeeRequest struct {
	EmployeeNumber string  `json:"employee_number"`
	FullName       string  `json:"full_name" binding:"required"`
	DateOfBirth    string  `json:"date_of_birth" binding:"required"`
	Phone          *string `json:"phone"`
	Role           string  `json:"role" binding:"omitempty,oneof=admin employee"`
	WorkStationID  string  `json:"work_station_id" binding:"omitempty,uuid"`
}

type UpdateEmployeeRequest struct {
	EmployeeNumber string  `json:"employee_number" binding:"required"`
	FullName       string  `json:"full_name" binding:"required"`
	DateOfBirth    string  `json:"date_of_birth" binding:"required"`
	Phone          *string `json:"phone"`
	Role           string  `json:"role" binding:"omitempty,oneof=admin employee"`
	WorkStationID  string  `json:"work_station_id" binding:"omitempty,uuid"`
}

type EmployeeWorkStationResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type EmployeeResponse struct {
	ID                   string                       `json:"id"`
	EmployeeNumber       string                       `json:"employee_number"`
	FullName             string                       `json:"full_name"`
	DateOfBirth          string                       `json:"date_of_birth"`
	Phone                *string                      `json:"phone,omitempty"`
	Role                 string                       `json:"role"`
	WorkStationID        string                       `json:"work_station_id,omitempty"`
	WorkLatitude         *float64                     `json:"work_latitude,omitempty"`
	WorkLongitude        *float64                     `json:"work_longitude,omitempty"`
	WorkLocationSyncedAt string                       `json:"work_location_synced_at,omitempty"`
	WorkStation          *EmployeeWorkStationResponse `json:"work_station,omitempty"`
	CreatedAt            string                       `json:"created_at"`
}
