package patient

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
	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/medschedule-api/internal/middleware"
	"github.com/jwalitptl/medschedule-api/internal/model"
	"github.com/jwalitptl/medschedule-api/internal/service/auth"
	apperrors "github.com/jwalitptl/medschedule-api/pkg/errors"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Profile(ctx context.Context, session *auth.Session) (*model.Patient, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Patient), args.Error(1)
}

func (m *MockService) SaveProfile(ctx context.Context, session *auth.Session, req *model.UpsertPatientRequest) (*model.Patient, error) {
	args := m.Called(ctx, session, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Patient), args.Error(1)
}

var session = &auth.Session{PatientID: uuid.New(), Role: auth.RolePatient, Email: "jane@example.com"}

func setup(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1", func(c *gin.Context) {
		c.Set(middleware.ContextSession, session)
		c.Next()
	}))
	return r
}

func do(r *gin.Engine, method string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, "/api/v1/profile", &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetProfileMissing(t *testing.T) {
	svc := new(MockService)
	svc.On("Profile", mock.Anything, session).Return(nil, apperrors.NotFound("profile", nil))

	w := do(setup(svc), http.MethodGet, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "profile not found")
}

func TestSaveProfile(t *testing.T) {
	svc := new(MockService)
	svc.On("SaveProfile", mock.Anything, session, mock.MatchedBy(func(req *model.UpsertPatientRequest) bool {
		return req.FirstName == "Jane" && req.DOB == "1990-05-01"
	})).Return(&model.Patient{Base: model.Base{ID: session.PatientID}, Email: session.Email, FirstName: "Jane", LastName: "Doe"}, nil)

	w := do(setup(svc), http.MethodPut, gin.H{"first_name": "Jane", "last_name": "Doe", "dob": "1990-05-01"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jane@example.com")
	svc.AssertExpectations(t)
}

func TestSaveProfileValidation(t *testing.T) {
	svc := new(MockService)
	r := setup(svc)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, gin.H{"first_name": "Jane"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, gin.H{"first_name": "Jane", "last_name": "Doe", "patient_type": "vip"}).Code)
	svc.AssertNotCalled(t, "SaveProfile", mock.Anything, mock.Anything, mock.Anything)
}
