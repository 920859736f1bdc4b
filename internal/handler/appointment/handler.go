package appointment

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/medschedule-api/internal/middleware"
	"github.com/jwalitptl/medschedule-api/internal/model"
	"github.com/jwalitptl/medschedule-api/internal/service/auth"
	apperrors "github.com/jwalitptl/medschedule-api/pkg/errors"
	"github.com/jwalitptl/medschedule-api/pkg/httputil"
	"github.com/jwalitptl/medschedule-api/pkg/validator"
)

type Service interface {
	Book(ctx context.Context, session *auth.Session, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	Get(ctx context.Context, session *auth.Session, id uuid.UUID) (*model.Appointment, error)
	ListForPatient(ctx context.Context, session *auth.Session) (*model.PatientAppointments, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects an authenticated group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListMyAppointments)
		appointments.GET("/:id", h.GetAppointment)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(validator.Message(err), err))
		return
	}

	appointment, err := h.service.Book(c.Request.Context(), middleware.Session(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithStatus(c, http.StatusCreated, appointment)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment ID", err))
		return
	}

	appointment, err := h.service.Get(c.Request.Context(), middleware.Session(c), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, appointment)
}

func (h *Handler) ListMyAppointments(c *gin.Context) {
	appointments, err := h.service.ListForPatient(c.Request.Context(), middleware.Session(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, appointments)
}
