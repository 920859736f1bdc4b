package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/medschedule-api/internal/model"
	"github.com/jwalitptl/medschedule-api/internal/service/auth"
	apperrors "github.com/jwalitptl/medschedule-api/pkg/errors"
)

// Get returns one appointment to its patient or to an admin.
func (s *Service) Get(ctx context.Context, session *auth.Session, id uuid.UUID) (*model.Appointment, error) {
	if session == nil {
		return nil, apperrors.Unauthorized(nil)
	}
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, storeError("appointment", err)
	}
	if !session.IsAdmin() && apt.PatientID != session.PatientID {
		return nil, apperrors.NotFound("appointment", nil)
	}
	return apt, nil
}

// ListForPatient backs the patient dashboard: every appointment of the
// session's patient by start time, and how many are still ahead.
func (s *Service) ListForPatient(ctx context.Context, session *auth.Session) (*model.PatientAppointments, error) {
	if !session.IsPatient() {
		return nil, apperrors.Forbidden("patient access required")
	}

	rows, err := s.repo.List(ctx, &model.AppointmentFilters{PatientID: session.PatientID})
	if err != nil {
		return nil, apperrors.Unavailable(err)
	}

	now := s.opts.Now()
	upcoming := 0
	for _, a := range rows {
		if a.StartTime.After(now) && a.Status != model.AppointmentStatusCancelled {
			upcoming++
		}
	}
	return &model.PatientAppointments{Appointments: rows, UpcomingCount: upcoming}, nil
}

// List is the admin listing.
func (s *Service) List(ctx context.Context, session *auth.Session, filters *model.AppointmentFilters) ([]*model.AppointmentDetail, error) {
	if !session.IsAdmin() {
		return nil, apperrors.Forbidden("admin access required")
	}
	if filters != nil && filters.Status != "" && !filters.Status.Valid() {
		return nil, apperrors.BadRequest("unknown status filter", nil)
	}

	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Unavailable(err)
	}
	return rows, nil
}
