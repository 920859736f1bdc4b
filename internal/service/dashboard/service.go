package dashboard

import (
	"context"

	"github.com/jwalitptl/medschedule-api/internal/model"
	"github.com/jwalitptl/medschedule-api/internal/repository"
	"github.com/jwalitptl/medschedule-api/internal/service/auth"
	apperrors "github.com/jwalitptl/medschedule-api/pkg/errors"
)

type Service struct {
	appointments repository.AppointmentRepository
	patients     repository.PatientRepository
}

func NewService(appointments repository.AppointmentRepository, patients repository.PatientRepository) *Service {
	return &Service{appointments: appointments, patients: patients}
}

// Stats computes the admin dashboard counters from the live store.
func (s *Service) Stats(ctx context.Context, session *auth.Session) (*model.DashboardStats, error) {
	if !session.IsAdmin() {
		return nil, apperrors.Forbidden("admin access required")
	}

	byStatus, err := s.appointments.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.Unavailable(err)
	}
	byType, err := s.patients.CountByType(ctx)
	if err != nil {
		return nil, apperrors.Unavailable(err)
	}

	stats := &model.DashboardStats{
		ConfirmedAppointments: byStatus[model.AppointmentStatusConfirmed],
		PendingAppointments:   byStatus[model.AppointmentStatusPending],
		CancelledAppointments: byStatus[model.AppointmentStatusCancelled],
		NewPatients:           byType[model.PatientTypeNew],
		ReturningPatients:     byType[model.PatientTypeReturning],
	}
	for _, n := range byStatus {
		stats.TotalAppointments += n
	}
	for _, n := range byType {
		stats.TotalPatients += n
	}
	return stats, nil
}
