package confirmation

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medschedule-api/internal/confirmation"
	"github.com/jwalitptl/medschedule-api/internal/email"
	"github.com/jwalitptl/medschedule-api/internal/model"
)

type countingSender struct {
	sent int
}

func (s *countingSender) Send(context.Context, email.Message) error {
	s.sent++
	return nil
}

func setup(apiKey string) (*gin.Engine, *countingSender) {
	gin.SetMode(gin.TestMode)
	sender := &countingSender{}
	r := gin.New()
	NewHandler(confirmation.NewRelay(sender, apiKey)).RegisterRoutes(r)
	return r, sender
}

func post(r *gin.Engine, body []byte, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/functions/v1/send-confirmation", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validBody() []byte {
	body, _ := json.Marshal(model.ConfirmationRequest{
		AppointmentID:   uuid.New(),
		UserEmail:       "jane@example.com",
		AppointmentDate: "March 4, 2030",
		AppointmentTime: "10:30",
		DoctorID:        uuid.New(),
	})
	return body
}

func TestSendConfirmation(t *testing.T) {
	r, sender := setup("key")

	w := post(r, validBody(), "Bearer key")
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.ConfirmationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, sender.sent)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSendConfirmationFailures(t *testing.T) {
	r, sender := setup("key")

	assert.Equal(t, http.StatusUnauthorized, post(r, validBody(), "").Code)

	w := post(r, []byte(`{"appointmentId":"`+uuid.NewString()+`"}`), "Bearer key")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)

	assert.Equal(t, 0, sender.sent)
}

func TestPreflight(t *testing.T) {
	r, _ := setup("")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/functions/v1/send-confirmation", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "authorization")
}
