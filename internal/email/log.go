package email

import (
	"context"

	"github.com/rs/zerolog/log"
)

// LogSender writes messages to the log instead of delivering them. Used in
// local development.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Int("text_bytes", len(msg.Text)).
		Int("html_bytes", len(msg.HTML)).
		Msg("email not delivered, log provider configured")
	return nil
}
