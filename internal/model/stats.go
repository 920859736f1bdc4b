package model

type DashboardStats struct {
	TotalAppointments     int `json:"total_appointments"`
	ConfirmedAppointments int `json:"confirmed_appointments"`
	PendingAppointments   int `json:"pending_appointments"`
	CancelledAppointments int `json:"cancelled_appointments"`
	TotalPatients         int `json:"total_patients"`
	NewPatients           int `json:"new_patients"`
	ReturningPatients     int `json:"returning_patients"`
}
