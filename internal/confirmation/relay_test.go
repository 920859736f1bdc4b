package confirmation

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medschedule-api/internal/email"
	"github.com/jwalitptl/medschedule-api/internal/model"
)

type captureSender struct {
	sent []email.Message
	err  error
}

func (c *captureSender) Send(_ context.Context, msg email.Message) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, msg)
	return nil
}

func validRequest() *model.ConfirmationRequest {
	return &model.ConfirmationRequest{
		AppointmentID:   uuid.MustParse("6f1c2a8e-1111-4c1b-9b7a-2e4f5a6b7c8d"),
		UserEmail:       "jane@example.com",
		AppointmentDate: "March 4, 2030",
		AppointmentTime: "10:30",
		DoctorID:        uuid.New(),
	}
}

func TestRender(t *testing.T) {
	msg, err := Render(validRequest())
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", msg.To)
	assert.Equal(t, Subject, msg.Subject)
	for _, body := range []string{msg.Text, msg.HTML} {
		assert.Contains(t, body, "Appointment Confirmation")
		assert.Contains(t, body, "March 4, 2030")
		assert.Contains(t, body, "10:30")
		assert.Contains(t, body, "Pending Confirmation")
		assert.Contains(t, body, "6f1c2a8e-1111-4c1b-9b7a-2e4f5a6b7c8d")
		assert.Contains(t, body, "arrive 15 minutes early")
		assert.Contains(t, body, "Thank you for choosing MedSchedule!")
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	req := validRequest()
	req.AppointmentTime = "<script>alert(1)</script>"

	msg, err := Render(req)
	require.NoError(t, err)
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.Text, "<script>")
}

func TestSend(t *testing.T) {
	sender := &captureSender{}
	relay := NewRelay(sender, "")

	resp, err := relay.Send(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Len(t, sender.sent, 1)
}

func TestSendValidation(t *testing.T) {
	relay := NewRelay(&captureSender{}, "")

	tests := map[string]func(*model.ConfirmationRequest){
		"missing id":   func(r *model.ConfirmationRequest) { r.AppointmentID = uuid.Nil },
		"bad email":    func(r *model.ConfirmationRequest) { r.UserEmail = "jane" },
		"missing date": func(r *model.ConfirmationRequest) { r.AppointmentDate = "" },
		"missing time": func(r *model.ConfirmationRequest) { r.AppointmentTime = "" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			req := validRequest()
			mutate(req)
			_, err := relay.Send(context.Background(), req)
			assert.Error(t, err)
		})
	}
}

func TestAuthorize(t *testing.T) {
	assert.NoError(t, NewRelay(nil, "").Authorize(""))

	relay := NewRelay(nil, "secret")
	assert.NoError(t, relay.Authorize("Bearer secret"))
	assert.ErrorIs(t, relay.Authorize("Bearer wrong"), ErrUnauthorized)
	assert.ErrorIs(t, relay.Authorize("secret"), ErrUnauthorized)
}

func TestHandleAPIGatewayPreflight(t *testing.T) {
	relay := NewRelay(&captureSender{}, "")

	resp, err := relay.HandleAPIGateway(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodOptions})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.Empty(t, resp.Body)
}

func TestHandleAPIGateway(t *testing.T) {
	sender := &captureSender{}
	relay := NewRelay(sender, "secret")
	body, _ := json.Marshal(validRequest())

	resp, err := relay.HandleAPIGateway(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Headers:         map[string]string{"authorization": "Bearer secret"},
		Body:            base64.StdEncoding.EncodeToString(body),
		IsBase64Encoded: true,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out model.ConfirmationResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
	assert.True(t, out.Success)
	assert.Len(t, sender.sent, 1)
}

func TestHandleAPIGatewayFailures(t *testing.T) {
	body, _ := json.Marshal(validRequest())

	relay := NewRelay(&captureSender{err: errors.New("provider down")}, "")
	resp, err := relay.HandleAPIGateway(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: string(body)})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var out model.ConfirmationResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
	assert.False(t, out.Success)
	assert.Equal(t, "provider down", out.Error)

	resp, _ = relay.HandleAPIGateway(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: "{not json"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp, _ = NewRelay(&captureSender{}, "secret").HandleAPIGateway(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: string(body)})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRespondEncodingFailure(t *testing.T) {
	resp := respond(http.StatusOK, map[string]any{"bad": make(chan int)})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])

	var out model.ConfirmationResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
	assert.False(t, out.Success)
	assert.Equal(t, "internal error", out.Error)
}
