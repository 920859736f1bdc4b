package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/medschedule-api/internal/model"
	"github.com/jwalitptl/medschedule-api/internal/schedule"
	apperrors "github.com/jwalitptl/medschedule-api/pkg/errors"
)

// Availability overlays the doctor's live bookings for date onto the slot
// template. With no doctor or no date the result is unresolved and empty.
// A store failure is an error; it is never reported as a free day.
func (s *Service) Availability(ctx context.Context, doctorID uuid.UUID, date string) (*model.Availability, error) {
	result := &model.Availability{DoctorID: doctorID, Date: date, Slots: []model.TimeSlot{}}
	if doctorID == uuid.Nil || date == "" {
		return result, nil
	}

	day, err := s.parseDate(date)
	if err != nil {
		return nil, apperrors.BadRequest("date must be formatted YYYY-MM-DD", err)
	}

	from, to := schedule.DayRange(day, s.opts.Location)
	starts, err := s.repo.ListBookedStarts(ctx, doctorID, from, to)
	if err != nil {
		return nil, apperrors.Unavailable(err)
	}

	taken := make(map[string]struct{}, len(starts))
	for _, start := range starts {
		taken[schedule.TimeOfDay(start, s.opts.Location)] = struct{}{}
	}

	for t := range s.opts.Window.Slots() {
		_, booked := taken[t]
		result.Slots = append(result.Slots, model.TimeSlot{Time: t, Available: !booked})
	}
	result.Resolved = true
	return result, nil
}
