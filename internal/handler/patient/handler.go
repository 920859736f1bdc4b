package patient

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medschedule-api/internal/middleware"
	"github.com/jwalitptl/medschedule-api/internal/model"
	"github.com/jwalitptl/medschedule-api/internal/service/auth"
	apperrors "github.com/jwalitptl/medschedule-api/pkg/errors"
	"github.com/jwalitptl/medschedule-api/pkg/httputil"
	"github.com/jwalitptl/medschedule-api/pkg/validator"
)

type Service interface {
	Profile(ctx context.Context, session *auth.Session) (*model.Patient, error)
	SaveProfile(ctx context.Context, session *auth.Session, req *model.UpsertPatientRequest) (*model.Patient, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	profile := r.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.SaveProfile)
	}
}

func (h *Handler) GetProfile(c *gin.Context) {
	patient, err := h.service.Profile(c.Request.Context(), middleware.Session(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patient)
}

// SaveProfile creates the profile on first use, which is what unlocks booking.
func (h *Handler) SaveProfile(c *gin.Context) {
	var req model.UpsertPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(validator.Message(err), err))
		return
	}

	patient, err := h.service.SaveProfile(c.Request.Context(), middleware.Session(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patient)
}
