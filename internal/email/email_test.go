package email

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/medschedule-api/internal/config"
)

var msg = Message{
	To:      "jane@example.com",
	ToName:  "Jane Doe",
	Subject: "Appointment Confirmation - MedSchedule",
	Text:    "See you soon",
	HTML:    "<p>See you soon</p>",
}

type fakeSendGrid struct {
	got    *mail.SGMailV3
	status int
	err    error
}

func (f *fakeSendGrid) SendWithContext(_ context.Context, m *mail.SGMailV3) (*rest.Response, error) {
	f.got = m
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status, Body: "{}"}, nil
}

func TestSendGridSender(t *testing.T) {
	fake := &fakeSendGrid{status: http.StatusAccepted}
	s := &SendGridSender{client: fake, from: Address{Email: "noreply@medschedule.app", Name: "MedSchedule"}}

	require.NoError(t, s.Send(context.Background(), msg))
	require.NotNil(t, fake.got)
	assert.Equal(t, msg.Subject, fake.got.Subject)
	assert.Equal(t, "noreply@medschedule.app", fake.got.From.Address)
	require.Len(t, fake.got.Personalizations, 1)
	assert.Equal(t, "jane@example.com", fake.got.Personalizations[0].To[0].Address)
	require.Len(t, fake.got.Content, 2)
	assert.Equal(t, "See you soon", fake.got.Content[0].Value)
}

func TestSendGridSenderErrors(t *testing.T) {
	s := &SendGridSender{client: &fakeSendGrid{status: http.StatusUnauthorized}}
	assert.ErrorContains(t, s.Send(context.Background(), msg), "status 401")

	s = &SendGridSender{client: &fakeSendGrid{err: errors.New("dns")}}
	assert.ErrorContains(t, s.Send(context.Background(), msg), "dns")

	assert.ErrorIs(t, s.Send(context.Background(), Message{Subject: "x"}), ErrNoRecipient)
}

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func TestSMTPSender(t *testing.T) {
	dialer := &fakeDialer{}
	s := &SMTPSender{dialer: dialer, from: Address{Email: "noreply@medschedule.app", Name: "MedSchedule"}}

	require.NoError(t, s.Send(context.Background(), msg))
	require.Len(t, dialer.sent, 1)
	assert.Equal(t, []string{msg.Subject}, dialer.sent[0].GetHeader("Subject"))
	assert.Contains(t, dialer.sent[0].GetHeader("To")[0], "jane@example.com")

	dialer.err = errors.New("connection refused")
	assert.ErrorContains(t, s.Send(context.Background(), msg), "connection refused")
}

func TestSMTPSenderCancelledContext(t *testing.T) {
	dialer := &fakeDialer{}
	s := &SMTPSender{dialer: dialer}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, msg), context.Canceled)
	assert.Empty(t, dialer.sent)
}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESSender(t *testing.T) {
	fake := &fakeSES{}
	s := NewSESSender(fake, Address{Email: "noreply@medschedule.app", Name: "MedSchedule"})

	require.NoError(t, s.Send(context.Background(), msg))
	assert.Equal(t, "MedSchedule <noreply@medschedule.app>", aws.ToString(fake.input.FromEmailAddress))
	assert.Equal(t, []string{"jane@example.com"}, fake.input.Destination.ToAddresses)
	assert.Equal(t, msg.Text, aws.ToString(fake.input.Content.Simple.Body.Text.Data))
	assert.Equal(t, msg.HTML, aws.ToString(fake.input.Content.Simple.Body.Html.Data))

	fake.err = errors.New("throttled")
	assert.ErrorContains(t, s.Send(context.Background(), msg), "throttled")
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, config.EmailConfig{Provider: "log"})
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, s)

	s, err = New(ctx, config.EmailConfig{Provider: "sendgrid", SendGridAPIKey: "SG.key"})
	require.NoError(t, err)
	assert.IsType(t, &SendGridSender{}, s)

	s, err = New(ctx, config.EmailConfig{Provider: "smtp", SMTPHost: "localhost"})
	require.NoError(t, err)
	assert.IsType(t, &SMTPSender{}, s)

	_, err = New(ctx, config.EmailConfig{Provider: "sendgrid"})
	assert.Error(t, err)
	_, err = New(ctx, config.EmailConfig{Provider: "pigeon"})
	assert.Error(t, err)
}

func TestLogSender(t *testing.T) {
	assert.NoError(t, NewLogSender().Send(context.Background(), msg))
	assert.ErrorIs(t, NewLogSender().Send(context.Background(), Message{}), ErrNoRecipient)
}
