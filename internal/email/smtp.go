package email

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

type smtpDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPSender struct {
	dialer smtpDialer
	from   Address
}

func NewSMTPSender(host string, port int, username, password string, from Address) *SMTPSender {
	if port == 0 {
		port = 587
	}
	return &SMTPSender{dialer: gomail.NewDialer(host, port, username, password), from: from}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from.Email, s.from.Name)
	if msg.ToName != "" {
		m.SetAddressHeader("To", msg.To, msg.ToName)
	} else {
		m.SetHeader("To", msg.To)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}

	// gomail has no context support; check before dialing at least.
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}

	log.Info().Str("to", msg.To).Msg("email sent via smtp")
	return nil
}
