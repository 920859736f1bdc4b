package confirmation

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medschedule-api/internal/confirmation"
	"github.com/jwalitptl/medschedule-api/internal/model"
)

type Relay interface {
	Authorize(header string) error
	Send(ctx context.Context, req *model.ConfirmationRequest) (*model.ConfirmationResponse, error)
}

// Handler serves the confirmation function on the API for local use. It
// answers in the function's own {success, message|error} shape, not the API
// envelope, so the notification client can talk to either deployment.
type Handler struct {
	relay Relay
}

func NewHandler(relay Relay) *Handler {
	return &Handler{relay: relay}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.OPTIONS("/functions/v1/send-confirmation", h.Preflight)
	r.POST("/functions/v1/send-confirmation", h.SendConfirmation)
}

func (h *Handler) Preflight(c *gin.Context) {
	setCORS(c)
	c.Status(http.StatusOK)
}

func (h *Handler) SendConfirmation(c *gin.Context) {
	setCORS(c)

	if err := h.relay.Authorize(c.GetHeader("Authorization")); err != nil {
		c.JSON(http.StatusUnauthorized, model.ConfirmationResponse{Error: err.Error()})
		return
	}

	var req model.ConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusInternalServerError, model.ConfirmationResponse{Error: err.Error()})
		return
	}

	resp, err := h.relay.Send(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ConfirmationResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func setCORS(c *gin.Context) {
	for k, v := range confirmation.CORSHeaders {
		c.Header(k, v)
	}
}
