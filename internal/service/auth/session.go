package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RolePatient Role = "patient"
	RoleAdmin   Role = "admin"
)

// Session is the authenticated caller of one request. It is created from a
// verified token and passed explicitly to the services that need it.
type Session struct {
	Subject   string    `json:"subject"`
	PatientID uuid.UUID `json:"patient_id,omitempty"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Role      Role      `json:"role"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

func (s *Session) IsPatient() bool {
	return s != nil && s.Role == RolePatient && s.PatientID != uuid.Nil
}

type sessionKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns nil when the request is anonymous.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
