package notification

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/medschedule-api/internal/model"
	"github.com/jwalitptl/medschedule-api/internal/schedule"
	"github.com/jwalitptl/medschedule-api/pkg/metrics"
)

// DateLayout is how the appointment date appears in the confirmation email.
const DateLayout = "January 2, 2006"

// Sender delivers one confirmation request synchronously.
type Sender interface {
	Send(ctx context.Context, req *model.ConfirmationRequest) error
}

// Dispatcher fires confirmations without making the caller wait or fail.
type Dispatcher interface {
	Dispatch(ctx context.Context, appointment *model.Appointment, email string)
}

type Service struct {
	sender  Sender
	loc     *time.Location
	timeout time.Duration
	metrics *metrics.Metrics

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewService(sender Sender, loc *time.Location, timeout time.Duration, m *metrics.Metrics) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{sender: sender, loc: loc, timeout: timeout, metrics: m}
}

// BuildRequest renders the appointment into the confirmation function's body.
func BuildRequest(appointment *model.Appointment, email string, loc *time.Location) *model.ConfirmationRequest {
	return &model.ConfirmationRequest{
		AppointmentID:   appointment.ID,
		UserEmail:       email,
		AppointmentDate: appointment.StartTime.In(loc).Format(DateLayout),
		AppointmentTime: schedule.TimeOfDay(appointment.StartTime, loc),
		DoctorID:        appointment.DoctorID,
	}
}

// Dispatch sends the confirmation on its own goroutine. The request context
// may already be cancelled by the time the send runs, so only its values are
// kept. Failures are logged and counted; at most one attempt is made.
func (s *Service) Dispatch(ctx context.Context, appointment *model.Appointment, email string) {
	req := BuildRequest(appointment, email, s.loc)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.metrics.ObserveNotification("dropped")
		log.Warn().
			Str("appointment_id", req.AppointmentID.String()).
			Msg("shutting down, appointment confirmation dropped")
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	go func() {
		defer s.wg.Done()
		defer cancel()

		if err := s.sender.Send(sendCtx, req); err != nil {
			s.metrics.ObserveNotification("failed")
			log.Error().Err(err).
				Str("appointment_id", req.AppointmentID.String()).
				Msg("failed to send appointment confirmation")
			return
		}
		s.metrics.ObserveNotification("sent")
		log.Info().
			Str("appointment_id", req.AppointmentID.String()).
			Msg("appointment confirmation sent")
	}()
}

// Wait blocks until in-flight dispatches finish.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Close stops accepting dispatches and waits for the in-flight ones. Later
// dispatches are dropped and counted.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
}

// NopSender drops confirmations when notifications are disabled.
type NopSender struct{}

func (NopSender) Send(_ context.Context, req *model.ConfirmationRequest) error {
	log.Debug().Str("appointment_id", req.AppointmentID.String()).Msg("notifications disabled, confirmation skipped")
	return nil
}
