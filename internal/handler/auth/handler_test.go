package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medschedule-api/internal/middleware"
	"github.com/jwalitptl/medschedule-api/internal/model"
	"github.com/jwalitptl/medschedule-api/internal/service/auth"
	apperrors "github.com/jwalitptl/medschedule-api/pkg/errors"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) AdminLogin(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TokenResponse), args.Error(1)
}

func (m *MockService) AdminProfile(session *auth.Session) (*model.AdminProfile, error) {
	args := m.Called(session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminProfile), args.Error(1)
}

func (m *MockService) Logout(ctx context.Context, session *auth.Session) error {
	return m.Called(ctx, session).Error(0)
}

var adminSession = &auth.Session{Role: auth.RoleAdmin, Email: "admin@clinic.com", Name: "Admin"}

func setup(svc Service, session *auth.Session) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	public := r.Group("/api/v1")
	protected := r.Group("/api/v1", func(c *gin.Context) {
		c.Set(middleware.ContextSession, session)
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(public, protected)
	return r
}

func do(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminLogin(t *testing.T) {
	svc := new(MockService)
	expires := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	svc.On("AdminLogin", mock.Anything, "admin@clinic.com", "s3cret").
		Return(&model.TokenResponse{AccessToken: "tok", TokenType: "bearer", ExpiresAt: expires}, nil)

	w := do(setup(svc, nil), http.MethodPost, "/api/v1/auth/admin/login", model.AdminLoginRequest{Email: "admin@clinic.com", Password: "s3cret"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string              `json:"status"`
		Data   model.TokenResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "tok", resp.Data.AccessToken)
	svc.AssertExpectations(t)
}

func TestAdminLoginRejected(t *testing.T) {
	svc := new(MockService)
	svc.On("AdminLogin", mock.Anything, "admin@clinic.com", "wrong").
		Return(nil, apperrors.Unauthorized(errors.New("invalid credentials")))

	w := do(setup(svc, nil), http.MethodPost, "/api/v1/auth/admin/login", model.AdminLoginRequest{Email: "admin@clinic.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminLoginValidation(t *testing.T) {
	svc := new(MockService)
	w := do(setup(svc, nil), http.MethodPost, "/api/v1/auth/admin/login", gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "AdminLogin", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyAdmin(t *testing.T) {
	svc := new(MockService)
	svc.On("AdminProfile", adminSession).Return(&model.AdminProfile{Email: "admin@clinic.com", Role: "admin"}, nil)

	w := do(setup(svc, adminSession), http.MethodGet, "/api/v1/admin/verify", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin@clinic.com")
}

func TestLogout(t *testing.T) {
	svc := new(MockService)
	svc.On("Logout", mock.Anything, adminSession).Return(nil).Once()
	svc.On("Logout", mock.Anything, adminSession).Return(apperrors.Unavailable(errors.New("redis down"))).Once()

	r := setup(svc, adminSession)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/v1/auth/logout", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodPost, "/api/v1/auth/logout", nil).Code)
}
