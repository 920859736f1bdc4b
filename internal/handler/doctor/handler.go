package doctor

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/medschedule-api/internal/model"
	apperrors "github.com/jwalitptl/medschedule-api/pkg/errors"
	"github.com/jwalitptl/medschedule-api/pkg/httputil"
)

type Directory interface {
	List(ctx context.Context) ([]*model.Doctor, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
}

type AvailabilityResolver interface {
	Availability(ctx context.Context, doctorID uuid.UUID, date string) (*model.Availability, error)
}

type Handler struct {
	directory    Directory
	availability AvailabilityResolver
}

func NewHandler(directory Directory, availability AvailabilityResolver) *Handler {
	return &Handler{directory: directory, availability: availability}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.GET("/:id", h.GetDoctor)
		doctors.GET("/:id/availability", h.GetAvailability)
	}
	// query form used by the booking page before a doctor is chosen
	r.GET("/availability", h.GetAvailability)
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.directory.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctors)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid doctor ID", err))
		return
	}

	doctor, err := h.directory.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctor)
}

// GetAvailability answers with an unresolved result while either the doctor
// or the date is still missing.
func (h *Handler) GetAvailability(c *gin.Context) {
	raw := c.Param("id")
	if raw == "" {
		raw = c.Query("doctor_id")
	}

	var doctorID uuid.UUID
	if raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid doctor ID", err))
			return
		}
		doctorID = id
	}

	availability, err := h.availability.Availability(c.Request.Context(), doctorID, c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, availability)
}
