package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jwalitptl/medschedule-api/pkg/errors"
)

// Response wraps all successful API responses
type Response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
}

// ErrorResponse is the envelope for failures. Retryable tells the client it
// may resubmit the same request unchanged.
type ErrorResponse struct {
	Status    string      `json:"status"`
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Retryable bool        `json:"retryable"`
	Details   interface{} `json:"details,omitempty"`
}

// RespondWithSuccess sends a 200 response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	RespondWithStatus(c, http.StatusOK, data)
}

// RespondWithStatus sends a success envelope with an explicit status code
func RespondWithStatus(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{
		Status: "success",
		Data:   data,
	})
}

// RespondWithError renders err. Anything that is not an AppError is reported
// as an internal error without leaking its text.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.Internal(err)
	}

	c.AbortWithStatusJSON(appErr.StatusCode(), ErrorResponse{
		Status:    "error",
		Code:      appErr.Code.String(),
		Message:   appErr.Message,
		Retryable: appErr.Retryable,
		Details:   appErr.Details,
	})
}
