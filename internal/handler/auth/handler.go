package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medschedule-api/internal/middleware"
	"github.com/jwalitptl/medschedule-api/internal/model"
	"github.com/jwalitptl/medschedule-api/internal/service/auth"
	apperrors "github.com/jwalitptl/medschedule-api/pkg/errors"
	"github.com/jwalitptl/medschedule-api/pkg/httputil"
	"github.com/jwalitptl/medschedule-api/pkg/validator"
)

type Service interface {
	AdminLogin(ctx context.Context, email, password string) (*model.TokenResponse, error)
	AdminProfile(session *auth.Session) (*model.AdminProfile, error)
	Logout(ctx context.Context, session *auth.Session) error
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the public login endpoint on public and the session
// endpoints on protected, which must already authenticate.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/auth/admin/login", h.AdminLogin)

	protected.GET("/auth/session", h.Session)
	protected.POST("/auth/logout", h.Logout)
	protected.GET("/admin/verify", h.VerifyAdmin)
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var req model.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(validator.Message(err), err))
		return
	}

	token, err := h.svc.AdminLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, token)
}

func (h *Handler) VerifyAdmin(c *gin.Context) {
	profile, err := h.svc.AdminProfile(middleware.Session(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, profile)
}

// Session echoes the caller's session so clients can check sign-in state.
func (h *Handler) Session(c *gin.Context) {
	httputil.RespondWithSuccess(c, middleware.Session(c))
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.Session(c)); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithStatus(c, http.StatusOK, gin.H{"message": "logged out successfully"})
}
