package admin

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/medschedule-api/internal/middleware"
	"github.com/jwalitptl/medschedule-api/internal/model"
	"github.com/jwalitptl/medschedule-api/internal/schedule"
	"github.com/jwalitptl/medschedule-api/internal/service/auth"
	apperrors "github.com/jwalitptl/medschedule-api/pkg/errors"
	"github.com/jwalitptl/medschedule-api/pkg/httputil"
	"github.com/jwalitptl/medschedule-api/pkg/validator"
)

type (
	AppointmentService interface {
		List(ctx context.Context, session *auth.Session, filters *model.AppointmentFilters) ([]*model.AppointmentDetail, error)
		UpdateStatus(ctx context.Context, session *auth.Session, id uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error)
	}

	PatientService interface {
		List(ctx context.Context, session *auth.Session, filters *model.PatientFilters) ([]*model.Patient, error)
		Delete(ctx context.Context, session *auth.Session, id uuid.UUID) error
	}

	DoctorService interface {
		Schedules(ctx context.Context) ([]*model.DoctorSchedule, error)
	}

	StatsService interface {
		Stats(ctx context.Context, session *auth.Session) (*model.DashboardStats, error)
	}
)

type Handler struct {
	appointments AppointmentService
	patients     PatientService
	doctors      DoctorService
	stats        StatsService
	// loc interprets the from/to date filters.
	loc *time.Location
}

func NewHandler(appointments AppointmentService, patients PatientService, doctors DoctorService, stats StatsService, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		appointments: appointments,
		patients:     patients,
		doctors:      doctors,
		stats:        stats,
		loc:          loc,
	}
}

// RegisterRoutes expects a group that already requires an admin session.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	{
		admin.GET("/stats", h.GetStats)
		admin.GET("/appointments", h.ListAppointments)
		admin.PATCH("/appointments/:id/status", h.UpdateAppointmentStatus)
		admin.GET("/patients", h.ListPatients)
		admin.DELETE("/patients/:id", h.DeletePatient)
		admin.GET("/doctors", h.ListDoctors)
	}
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context(), middleware.Session(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, stats)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	filters := &model.AppointmentFilters{
		Status: model.AppointmentStatus(c.Query("status")),
	}

	if id := c.Query("doctor_id"); id != "" {
		doctorID, err := uuid.Parse(id)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid doctor ID", err))
			return
		}
		filters.DoctorID = doctorID
	}

	if date := c.Query("from"); date != "" {
		day, err := time.ParseInLocation(model.DateLayout, date, h.loc)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("from must be formatted YYYY-MM-DD", err))
			return
		}
		filters.From = schedule.StartOfDay(day, h.loc)
	}

	if date := c.Query("to"); date != "" {
		day, err := time.ParseInLocation(model.DateLayout, date, h.loc)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("to must be formatted YYYY-MM-DD", err))
			return
		}
		// inclusive of the whole "to" day
		_, filters.To = schedule.DayRange(day, h.loc)
	}

	pagination, err := parsePagination(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	filters.Pagination = pagination

	appointments, err := h.appointments.List(c.Request.Context(), middleware.Session(c), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment ID", err))
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(validator.Message(err), err))
		return
	}

	appointment, err := h.appointments.UpdateStatus(c.Request.Context(), middleware.Session(c), id, req.Status)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointment)
}

func (h *Handler) ListPatients(c *gin.Context) {
	pagination, err := parsePagination(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	patients, err := h.patients.List(c.Request.Context(), middleware.Session(c), &model.PatientFilters{
		Search:     c.Query("search"),
		Pagination: pagination,
	})
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patients)
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid patient ID", err))
		return
	}

	if err := h.patients.Delete(c.Request.Context(), middleware.Session(c), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "patient deleted"})
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.doctors.Schedules(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctors)
}

func parsePagination(c *gin.Context) (model.Pagination, error) {
	var p model.Pagination
	for name, dst := range map[string]*int{"limit": &p.Limit, "offset": &p.Offset} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return p, apperrors.BadRequest(name+" must be a non-negative integer", err)
		}
		*dst = n
	}
	if p.Limit > 500 {
		p.Limit = 500
	}
	return p, nil
}
