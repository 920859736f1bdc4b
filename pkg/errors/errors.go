package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code      ErrorCode   `json:"code"`
	Message   string      `json:"message"`
	Retryable bool        `json:"retryable"`
	Details   interface{} `json:"details,omitempty"`
	Err       error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error code onto an HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrBadRequest:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrConflict, ErrSlotUnavailable, ErrInvalidTransition:
		return http.StatusConflict
	case ErrProfileRequired:
		return http.StatusPreconditionFailed
	case ErrUnavailable:
		return http.StatusServiceUnavailable
	case ErrTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// WithDetails attaches a payload the client can act on, such as refreshed availability.
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrForbidden
	ErrInternal
	ErrConflict
	ErrProfileRequired
	ErrUnavailable
	ErrSlotUnavailable
	ErrInvalidTransition
	ErrTooManyRequests
)

func (c ErrorCode) String() string {
	switch c {
	case ErrNotFound:
		return "not_found"
	case ErrBadRequest:
		return "validation"
	case ErrUnauthorized:
		return "unauthorized"
	case ErrForbidden:
		return "forbidden"
	case ErrConflict:
		return "conflict"
	case ErrProfileRequired:
		return "profile_required"
	case ErrUnavailable:
		return "unavailable"
	case ErrSlotUnavailable:
		return "slot_unavailable"
	case ErrInvalidTransition:
		return "invalid_transition"
	case ErrTooManyRequests:
		return "rate_limited"
	default:
		return "internal"
	}
}

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// Common errors
func NotFound(resource string, err error) *AppError {
	return NewNotFound(resource, err)
}

func BadRequest(message string, err error) *AppError {
	return NewBadRequest(message, err)
}

func Internal(err error) *AppError {
	return NewInternal(err)
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:    ErrForbidden,
		Message: message,
	}
}

func Conflict(message string, err error) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
		Err:     err,
	}
}

// ProfileRequired is returned when an operation depends on a patient profile that does not exist yet.
func ProfileRequired(err error) *AppError {
	return &AppError{
		Code:    ErrProfileRequired,
		Message: "complete your profile before booking",
		Err:     err,
	}
}

// Unavailable wraps a store or network failure the caller may retry unchanged.
func Unavailable(err error) *AppError {
	return &AppError{
		Code:      ErrUnavailable,
		Message:   "service temporarily unavailable, please retry",
		Retryable: true,
		Err:       err,
	}
}

// SlotUnavailable is returned when someone else booked the slot first.
func SlotUnavailable(err error) *AppError {
	return &AppError{
		Code:    ErrSlotUnavailable,
		Message: "this time slot is no longer available, please pick another",
		Err:     err,
	}
}

func InvalidTransition(from, to string) *AppError {
	return &AppError{
		Code:    ErrInvalidTransition,
		Message: fmt.Sprintf("cannot change status from %s to %s", from, to),
	}
}

func TooManyRequests() *AppError {
	return &AppError{
		Code:      ErrTooManyRequests,
		Message:   "rate limit exceeded",
		Retryable: true,
	}
}

// As extracts an *AppError from the chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries an AppError with the given code.
func Is(err error, code ErrorCode) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}
