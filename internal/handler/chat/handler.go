package chat

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/medschedule-api/internal/middleware"
	"github.com/jwalitptl/medschedule-api/internal/model"
	"github.com/jwalitptl/medschedule-api/internal/service/auth"
	"github.com/jwalitptl/medschedule-api/internal/service/chat"
	apperrors "github.com/jwalitptl/medschedule-api/pkg/errors"
	"github.com/jwalitptl/medschedule-api/pkg/httputil"
	"github.com/jwalitptl/medschedule-api/pkg/validator"
)

type Responder interface {
	Reply(message string) model.ChatReply
}

type ProfileReader interface {
	Profile(ctx context.Context, session *auth.Session) (*model.Patient, error)
}

type Handler struct {
	responder Responder
	profiles  ProfileReader
}

func NewHandler(responder Responder, profiles ProfileReader) *Handler {
	return &Handler{responder: responder, profiles: profiles}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/chat", h.Reply)
	r.GET("/chat/greeting", h.Greeting)
}

func (h *Handler) Reply(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(validator.Message(err), err))
		return
	}
	httputil.RespondWithSuccess(c, h.responder.Reply(req.Message))
}

// Greeting never fails: without a profile the patient is greeted generically.
func (h *Handler) Greeting(c *gin.Context) {
	firstName := ""
	session := middleware.Session(c)
	if session.IsPatient() {
		patient, err := h.profiles.Profile(c.Request.Context(), session)
		switch {
		case err == nil:
			firstName = patient.FirstName
		case !apperrors.Is(err, apperrors.ErrNotFound):
			log.Warn().Err(err).Msg("profile lookup failed for chat greeting")
		}
	}
	httputil.RespondWithSuccess(c, model.ChatReply{Topic: "greeting", Text: chat.Greeting(firstName)})
}
