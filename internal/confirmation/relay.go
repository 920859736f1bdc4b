// Package confirmation renders and sends the booking confirmation email. It
// backs the confirmation function, which runs either as a Lambda or mounted
// on the API for local use.
package confirmation

import (
	"bytes"
	"context"
	"crypto/subtle"
	"embed"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/medschedule-api/internal/email"
	"github.com/jwalitptl/medschedule-api/internal/model"
)

const Subject = "Appointment Confirmation - MedSchedule"

//go:embed templates/*
var templateFS embed.FS

var (
	htmlTemplate = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/confirmation.html"))
	textTemplate = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/confirmation.txt"))

	ErrUnauthorized = errors.New("invalid api key")
)

type Relay struct {
	sender email.Sender
	apiKey string
}

// NewRelay returns a relay sending through sender. When apiKey is non-empty
// callers must present it as a bearer token.
func NewRelay(sender email.Sender, apiKey string) *Relay {
	return &Relay{sender: sender, apiKey: apiKey}
}

// Authorize checks an Authorization header value.
func (r *Relay) Authorize(header string) error {
	if r.apiKey == "" {
		return nil
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(r.apiKey)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// Validate reports the first missing or malformed field.
func Validate(req *model.ConfirmationRequest) error {
	switch {
	case req.AppointmentID == uuid.Nil:
		return errors.New("appointmentId is required")
	case strings.TrimSpace(req.UserEmail) == "" || !strings.Contains(req.UserEmail, "@"):
		return errors.New("userEmail is invalid")
	case req.AppointmentDate == "":
		return errors.New("appointmentDate is required")
	case req.AppointmentTime == "":
		return errors.New("appointmentTime is required")
	}
	return nil
}

// Render produces the email for req.
func Render(req *model.ConfirmationRequest) (email.Message, error) {
	var html, text bytes.Buffer
	if err := htmlTemplate.Execute(&html, req); err != nil {
		return email.Message{}, fmt.Errorf("failed to render html: %w", err)
	}
	if err := textTemplate.Execute(&text, req); err != nil {
		return email.Message{}, fmt.Errorf("failed to render text: %w", err)
	}
	return email.Message{
		To:      req.UserEmail,
		Subject: Subject,
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

// Send validates, renders and delivers the confirmation.
func (r *Relay) Send(ctx context.Context, req *model.ConfirmationRequest) (*model.ConfirmationResponse, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	msg, err := Render(req)
	if err != nil {
		return nil, err
	}
	if err := r.sender.Send(ctx, msg); err != nil {
		log.Error().Err(err).
			Str("appointment_id", req.AppointmentID.String()).
			Msg("Failed to send confirmation email")
		return nil, err
	}

	log.Info().
		Str("appointment_id", req.AppointmentID.String()).
		Str("doctor_id", req.DoctorID.String()).
		Msg("Confirmation email sent")

	return &model.ConfirmationResponse{Success: true, Message: "Confirmation email sent"}, nil
}
