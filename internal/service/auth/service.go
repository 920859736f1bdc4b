package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/medschedule-api/internal/config"
	"github.com/jwalitptl/medschedule-api/internal/model"
	pkgauth "github.com/jwalitptl/medschedule-api/pkg/auth"
	apperrors "github.com/jwalitptl/medschedule-api/pkg/errors"
	"github.com/jwalitptl/medschedule-api/pkg/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRevoked            = errors.New("token has been revoked")
	ErrInvalidSubject     = errors.New("token subject is not a patient id")
)

type Service struct {
	patientTokens pkgauth.JWTService
	adminTokens   pkgauth.JWTService
	adminTTL      time.Duration
	admin         config.AdminConfig
	hasher        security.PasswordHasher
	revoked       RevocationStore
	now           func() time.Time
}

// NewService verifies patient tokens issued by the identity provider and
// issues admin tokens for the single configured admin account.
func NewService(cfg config.JWTConfig, admin config.AdminConfig, hasher security.PasswordHasher, revoked RevocationStore) *Service {
	s := &Service{
		patientTokens: pkgauth.NewJWTService(cfg.PatientSecret, ""),
		adminTTL:      cfg.AdminExpiry,
		admin:         admin,
		hasher:        hasher,
		revoked:       revoked,
		now:           time.Now,
	}
	if cfg.AdminSecret != "" {
		s.adminTokens = pkgauth.NewJWTService(cfg.AdminSecret, cfg.Issuer)
	}
	if s.adminTTL <= 0 {
		s.adminTTL = 24 * time.Hour
	}
	return s
}

// Authenticate turns a bearer token into a Session.
func (s *Service) Authenticate(ctx context.Context, token string) (*Session, error) {
	session, err := s.parse(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	revoked, err := s.revoked.IsRevoked(ctx, session.TokenID)
	if err != nil {
		return nil, apperrors.Unavailable(err)
	}
	if revoked {
		return nil, apperrors.Unauthorized(ErrRevoked)
	}
	return session, nil
}

func (s *Service) parse(token string) (*Session, error) {
	if s.adminTokens != nil {
		if claims, err := s.adminTokens.ValidateToken(token); err == nil && claims.Role == string(RoleAdmin) {
			return &Session{
				Subject:   claims.Subject,
				Email:     claims.Email,
				Name:      s.admin.Name,
				Role:      RoleAdmin,
				TokenID:   tokenID(claims, token),
				ExpiresAt: claims.ExpiresAt.Time,
			}, nil
		}
	}

	claims, err := s.patientTokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	patientID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidSubject
	}
	return &Session{
		Subject:   claims.Subject,
		PatientID: patientID,
		Email:     claims.Email,
		Role:      RolePatient,
		TokenID:   tokenID(claims, token),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// tokenID prefers the jti claim and falls back to a digest of the token.
func tokenID(claims *pkgauth.Claims, token string) string {
	if claims.ID != "" {
		return claims.ID
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *Service) AdminLogin(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	if s.adminTokens == nil || s.admin.Email == "" {
		return nil, apperrors.Unauthorized(ErrInvalidCredentials)
	}
	if !strings.EqualFold(strings.TrimSpace(email), s.admin.Email) {
		return nil, apperrors.Unauthorized(ErrInvalidCredentials)
	}
	if err := s.hasher.Compare(s.admin.PasswordHash, password); err != nil {
		log.Warn().Str("email", email).Msg("admin login rejected")
		return nil, apperrors.Unauthorized(ErrInvalidCredentials)
	}

	token, claims, err := s.adminTokens.GenerateToken(s.admin.Email, s.admin.Email, string(RoleAdmin), s.adminTTL)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	log.Info().Str("email", s.admin.Email).Msg("admin signed in")
	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// AdminProfile describes the signed-in admin.
func (s *Service) AdminProfile(session *Session) (*model.AdminProfile, error) {
	if !session.IsAdmin() {
		return nil, apperrors.Forbidden("admin access required")
	}
	return &model.AdminProfile{Email: session.Email, Name: session.Name, Role: string(session.Role)}, nil
}

// Logout revokes the session's token for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, session *Session) error {
	if session == nil {
		return apperrors.Unauthorized(nil)
	}
	ttl := session.ExpiresAt.Sub(s.now())
	if err := s.revoked.Revoke(ctx, session.TokenID, ttl); err != nil {
		return apperrors.Unavailable(err)
	}
	return nil
}
