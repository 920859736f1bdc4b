package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medschedule-api/internal/service/auth"
	apperrors "github.com/jwalitptl/medschedule-api/pkg/errors"
	"github.com/jwalitptl/medschedule-api/pkg/httputil"
)

const ContextSession = "session"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Session, error)
}

type AuthMiddleware struct {
	authenticator Authenticator
}

func NewAuthMiddleware(authenticator Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// Authenticate verifies the bearer token and stores the session on the
// request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			httputil.RespondWithError(c, apperrors.Unauthorized(err))
			return
		}

		session, err := m.authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}

		c.Set(ContextSession, session)
		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), session))
		c.Next()
	}
}

// RequireAdmin must run after Authenticate.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Session(c).IsAdmin() {
			httputil.RespondWithError(c, apperrors.Forbidden("admin access required"))
			return
		}
		c.Next()
	}
}

// Session returns the authenticated caller, or nil.
func Session(c *gin.Context) *auth.Session {
	if v, ok := c.Get(ContextSession); ok {
		if s, ok := v.(*auth.Session); ok {
			return s
		}
	}
	return auth.SessionFromContext(c.Request.Context())
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errors.New("invalid authorization format")
	}
	return strings.TrimSpace(parts[1]), nil
}
