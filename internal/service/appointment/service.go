package appointment

import (
	"time"

	"github.com/jwalitptl/medschedule-api/internal/model"
	"github.com/jwalitptl/medschedule-api/internal/repository"
	"github.com/jwalitptl/medschedule-api/internal/schedule"
	"github.com/jwalitptl/medschedule-api/internal/service/notification"
	"github.com/jwalitptl/medschedule-api/pkg/metrics"
)

// Options are the booking rules of the clinic.
type Options struct {
	Window   schedule.Window
	Location *time.Location
	// Duration is the fixed length of every appointment.
	Duration time.Duration
	// BookingWindowDays is how far ahead a patient may book.
	BookingWindowDays int
	Now               func() time.Time
}

func (o *Options) setDefaults() {
	if o.Window == (schedule.Window{}) {
		o.Window = schedule.DefaultWindow()
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Duration <= 0 {
		o.Duration = 30 * time.Minute
	}
	if o.BookingWindowDays <= 0 {
		o.BookingWindowDays = 30
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

type Service struct {
	repo     repository.AppointmentRepository
	notifier notification.Dispatcher
	metrics  *metrics.Metrics
	opts     Options
}

func NewService(repo repository.AppointmentRepository, notifier notification.Dispatcher, m *metrics.Metrics, opts Options) *Service {
	opts.setDefaults()
	return &Service{
		repo:     repo,
		notifier: notifier,
		metrics:  m,
		opts:     opts,
	}
}

// Window exposes the slot template callers render.
func (s *Service) Window() schedule.Window {
	return s.opts.Window
}

func (s *Service) today() time.Time {
	return schedule.StartOfDay(s.opts.Now(), s.opts.Location)
}

func (s *Service) parseDate(date string) (time.Time, error) {
	return time.ParseInLocation(model.DateLayout, date, s.opts.Location)
}
