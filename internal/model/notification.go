package model

import "github.com/google/uuid"

// ConfirmationRequest is the body posted to the confirmation function.
type ConfirmationRequest struct {
	AppointmentID   uuid.UUID `json:"appointmentId"`
	UserEmail       string    `json:"userEmail"`
	AppointmentDate string    `json:"appointmentDate"`
	AppointmentTime string    `json:"appointmentTime"`
	DoctorID        uuid.UUID `json:"doctorId"`
}

// ConfirmationResponse is what the confirmation function answers.
type ConfirmationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
