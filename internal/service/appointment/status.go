package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/medschedule-api/internal/model"
	"github.com/jwalitptl/medschedule-api/internal/repository"
	"github.com/jwalitptl/medschedule-api/internal/service/auth"
	apperrors "github.com/jwalitptl/medschedule-api/pkg/errors"
)

// UpdateStatus applies an admin status change. Setting the current status
// again is a no-op. The write only succeeds if the status is still the one
// that was validated, so a concurrent change is reported instead of lost.
func (s *Service) UpdateStatus(ctx context.Context, session *auth.Session, id uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error) {
	if !session.IsAdmin() {
		return nil, apperrors.Forbidden("admin access required")
	}
	if !status.Valid() {
		return nil, apperrors.BadRequest("status must be pending, confirmed or cancelled", nil)
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, storeError("appointment", err)
	}
	if current.Status == status {
		return current, nil
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, apperrors.InvalidTransition(string(current.Status), string(status))
	}

	updated, err := s.repo.UpdateStatus(ctx, id, current.Status, status)
	if err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, apperrors.Conflict("appointment was changed by someone else, reload and try again", err)
		}
		return nil, apperrors.Unavailable(err)
	}

	log.Info().
		Str("appointment_id", id.String()).
		Str("from", string(current.Status)).
		Str("to", string(status)).
		Str("admin", session.Email).
		Msg("appointment status updated")
	return updated, nil
}

func storeError(resource string, err error) error {
	if repository.IsNotFound(err) {
		return apperrors.NotFound(resource, err)
	}
	return apperrors.Unavailable(err)
}
