package appointment

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/medschedule-api/internal/model"
	"github.com/jwalitptl/medschedule-api/internal/repository"
	"github.com/jwalitptl/medschedule-api/internal/schedule"
	"github.com/jwalitptl/medschedule-api/internal/service/auth"
	apperrors "github.com/jwalitptl/medschedule-api/pkg/errors"
)

// Book validates the selection, inserts a pending appointment for the
// session's patient and fires the confirmation. Every rejection that does
// not need the store happens before the store is touched.
func (s *Service) Book(ctx context.Context, session *auth.Session, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if !session.IsPatient() {
		return nil, apperrors.Forbidden("only patients can book appointments")
	}

	apt, err := s.newAppointment(session, req)
	if err != nil {
		s.metrics.ObserveBooking("invalid")
		return nil, err
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, s.bookingError(ctx, apt, req.Date, err)
	}

	s.metrics.ObserveBooking("created")
	log.Info().
		Str("appointment_id", apt.ID.String()).
		Str("doctor_id", apt.DoctorID.String()).
		Time("start_time", apt.StartTime).
		Msg("appointment booked")

	s.notifier.Dispatch(ctx, apt, session.Email)
	return apt, nil
}

func (s *Service) newAppointment(session *auth.Session, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if req == nil || req.DoctorID == "" || req.Date == "" || req.Time == "" {
		return nil, apperrors.BadRequest("doctor, date and time are required", nil)
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid doctor id", err)
	}

	day, err := s.parseDate(req.Date)
	if err != nil {
		return nil, apperrors.BadRequest("date must be formatted YYYY-MM-DD", err)
	}

	today := s.today()
	switch {
	case day.Before(today):
		return nil, apperrors.BadRequest("appointments cannot be booked in the past", nil)
	case schedule.IsWeekend(day, s.opts.Location):
		return nil, apperrors.BadRequest("appointments are not available on weekends", nil)
	case day.After(today.AddDate(0, 0, s.opts.BookingWindowDays)):
		return nil, apperrors.BadRequest("appointments can only be booked within the booking window", nil)
	}

	if !s.opts.Window.Contains(req.Time) {
		return nil, apperrors.BadRequest("time is not a bookable slot", nil)
	}
	start, err := schedule.At(day, req.Time, s.opts.Location)
	if err != nil {
		return nil, apperrors.BadRequest("invalid time", err)
	}
	if !start.After(s.opts.Now()) {
		return nil, apperrors.BadRequest("this time has already passed", nil)
	}

	var notes *string
	if req.Notes != nil {
		if trimmed := strings.TrimSpace(*req.Notes); trimmed != "" {
			notes = &trimmed
		}
	}

	return &model.Appointment{
		Base:            model.Base{ID: uuid.New()},
		PatientID:       session.PatientID,
		DoctorID:        doctorID,
		StartTime:       start.UTC(),
		EndTime:         start.Add(s.opts.Duration).UTC(),
		DurationMinutes: int(s.opts.Duration.Minutes()),
		Status:          model.AppointmentStatusPending,
		IsNewPatient:    req.IsNewPatient,
		Notes:           notes,
	}, nil
}

// bookingError classifies a failed insert.
func (s *Service) bookingError(ctx context.Context, apt *model.Appointment, date string, err error) error {
	switch {
	case errors.Is(err, repository.ErrPatientMissing):
		s.metrics.ObserveBooking("profile_required")
		return apperrors.ProfileRequired(err)

	case errors.Is(err, repository.ErrDoctorMissing):
		s.metrics.ObserveBooking("invalid")
		return apperrors.NotFound("doctor", err)

	case errors.Is(err, repository.ErrSlotTaken):
		s.metrics.ObserveBooking("conflict")
		conflict := apperrors.SlotUnavailable(err)
		if fresh, ferr := s.Availability(ctx, apt.DoctorID, date); ferr == nil {
			conflict.WithDetails(fresh)
		}
		return conflict

	default:
		s.metrics.ObserveBooking("unavailable")
		log.Error().Err(err).Str("doctor_id", apt.DoctorID.String()).Msg("failed to book appointment")
		return apperrors.Unavailable(err)
	}
}
