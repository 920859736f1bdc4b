package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/medschedule-api/internal/model"
)

// Store errors. Implementations wrap the driver error so both stay visible to errors.Is.
var (
	ErrNotFound       = errors.New("record not found")
	ErrSlotTaken      = errors.New("slot already booked")
	ErrPatientMissing = errors.New("patient profile does not exist")
	ErrDoctorMissing  = errors.New("doctor does not exist")
	ErrStatusChanged  = errors.New("appointment status changed concurrently")
)

// All repository interfaces in one file
type (
	DoctorRepository interface {
		List(ctx context.Context) ([]*model.Doctor, error)
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	}

	AppointmentRepository interface {
		// Create inserts a new appointment. It returns ErrSlotTaken when a
		// non-cancelled appointment already holds the doctor's start time.
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		// UpdateStatus moves the appointment from one status to another and
		// returns ErrStatusChanged when it is no longer in from.
		UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus) (*model.Appointment, error)
		// ListBookedStarts returns start times of non-cancelled appointments in [from, to).
		ListBookedStarts(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]time.Time, error)
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentDetail, error)
		CountByStatus(ctx context.Context) (map[model.AppointmentStatus]int, error)
	}

	PatientRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		Upsert(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
		CountByType(ctx context.Context) (map[model.PatientType]int, error)
	}
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
