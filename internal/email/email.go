// Package email delivers transactional mail through one of several providers.
package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/jwalitptl/medschedule-api/internal/config"
)

// Message is a provider-neutral email. Text is required; HTML is optional.
type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var ErrNoRecipient = errors.New("email: recipient is required")

func (m Message) validate() error {
	if strings.TrimSpace(m.To) == "" {
		return ErrNoRecipient
	}
	if m.Subject == "" {
		return errors.New("email: subject is required")
	}
	return nil
}

// New builds the sender selected by cfg.Provider.
func New(ctx context.Context, cfg config.EmailConfig) (Sender, error) {
	from := Address{Email: cfg.FromAddress, Name: cfg.FromName}

	switch cfg.Provider {
	case "", "log":
		return NewLogSender(), nil
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			return nil, errors.New("email: sendgrid api key is required")
		}
		return NewSendGridSender(cfg.SendGridAPIKey, from), nil
	case "smtp":
		if cfg.SMTPHost == "" {
			return nil, errors.New("email: smtp host is required")
		}
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, from), nil
	case "ses":
		opts := []func(*awsconfig.LoadOptions) error{}
		if cfg.SESRegion != "" {
			opts = append(opts, awsconfig.WithRegion(cfg.SESRegion))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("email: failed to load aws config: %w", err)
		}
		return NewSESSender(sesv2.NewFromConfig(awsCfg), from), nil
	default:
		return nil, fmt.Errorf("email: unknown provider %q", cfg.Provider)
	}
}

// Address is a sender identity.
type Address struct {
	Email string
	Name  string
}

func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}
