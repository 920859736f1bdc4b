package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an admin may move an appointment from s to next.
// Staying in the same status is always allowed.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case AppointmentStatusPending:
		return next == AppointmentStatusConfirmed || next == AppointmentStatusCancelled
	case AppointmentStatusConfirmed:
		return next == AppointmentStatusCancelled
	}
	return false
}

type Appointment struct {
	Base
	PatientID       uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID        uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	StartTime       time.Time         `db:"start_time" json:"start_time"`
	EndTime         time.Time         `db:"end_time" json:"end_time"`
	DurationMinutes int               `db:"duration_minutes" json:"duration_minutes"`
	Status          AppointmentStatus `db:"status" json:"status"`
	IsNewPatient    bool              `db:"is_new_patient" json:"is_new_patient"`
	Notes           *string           `db:"notes" json:"notes,omitempty"`
}

// AppointmentDetail is an appointment joined with the names shown in listings.
type AppointmentDetail struct {
	Appointment
	DoctorName       string `db:"doctor_name" json:"doctor_name"`
	DoctorSpecialty  string `db:"doctor_specialty" json:"doctor_specialty"`
	PatientName      string `db:"patient_name" json:"patient_name"`
	PatientEmail     string `db:"patient_email" json:"patient_email"`
	PatientPhone     string `db:"patient_phone" json:"patient_phone"`
	InsuranceCarrier string `db:"insurance_carrier" json:"insurance_carrier"`
}

type CreateAppointmentRequest struct {
	DoctorID     string  `json:"doctor_id" binding:"required,uuid"`
	Date         string  `json:"date" binding:"required,datetime=2006-01-02"`
	Time         string  `json:"time" binding:"required,datetime=15:04"`
	Notes        *string `json:"notes" binding:"omitempty,max=1000"`
	IsNewPatient bool    `json:"is_new_patient"`
}

type UpdateStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required,oneof=pending confirmed cancelled"`
}

type AppointmentFilters struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Status    AppointmentStatus
	From      time.Time
	To        time.Time
	Pagination
}

// TimeSlot is derived per request and never stored.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// Availability is the slot overlay for one doctor and day. Resolved is false
// when no doctor or date was selected, which is different from a day with
// every slot taken.
type Availability struct {
	DoctorID uuid.UUID  `json:"doctor_id"`
	Date     string     `json:"date"`
	Resolved bool       `json:"resolved"`
	Slots    []TimeSlot `json:"slots"`
}

// Free lists the times still open.
func (a *Availability) Free() []string {
	free := make([]string, 0, len(a.Slots))
	for _, s := range a.Slots {
		if s.Available {
			free = append(free, s.Time)
		}
	}
	return free
}

// PatientAppointments backs the patient dashboard.
type PatientAppointments struct {
	Appointments  []*AppointmentDetail `json:"appointments"`
	UpcomingCount int                  `json:"upcoming_count"`
}
