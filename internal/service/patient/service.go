package patient

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/medschedule-api/internal/model"
	"github.com/jwalitptl/medschedule-api/internal/repository"
	"github.com/jwalitptl/medschedule-api/internal/service/auth"
	apperrors "github.com/jwalitptl/medschedule-api/pkg/errors"
)

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

// Profile returns the session patient's profile. A patient who never saved
// one gets a not-found error, which the client treats as "complete profile".
func (s *Service) Profile(ctx context.Context, session *auth.Session) (*model.Patient, error) {
	if !session.IsPatient() {
		return nil, apperrors.Forbidden("patient access required")
	}
	p, err := s.repo.Get(ctx, session.PatientID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NotFound("profile", err)
		}
		return nil, apperrors.Unavailable(err)
	}
	return p, nil
}

// SaveProfile creates or replaces the session patient's profile. The email
// always comes from the session, never from the request body.
func (s *Service) SaveProfile(ctx context.Context, session *auth.Session, req *model.UpsertPatientRequest) (*model.Patient, error) {
	if !session.IsPatient() {
		return nil, apperrors.Forbidden("patient access required")
	}

	p := &model.Patient{
		Base:             model.Base{ID: session.PatientID},
		Email:            session.Email,
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		Phone:            strings.TrimSpace(req.Phone),
		Address:          strings.TrimSpace(req.Address),
		InsuranceCarrier: strings.TrimSpace(req.InsuranceCarrier),
		MemberID:         strings.TrimSpace(req.MemberID),
		GroupID:          strings.TrimSpace(req.GroupID),
		PatientType:      req.PatientType,
	}
	if p.FirstName == "" || p.LastName == "" {
		return nil, apperrors.BadRequest("first and last name are required", nil)
	}
	if p.PatientType == "" {
		p.PatientType = model.PatientTypeNew
	}
	if req.DOB != "" {
		dob, err := time.Parse(model.DateLayout, req.DOB)
		if err != nil {
			return nil, apperrors.BadRequest("dob must be formatted YYYY-MM-DD", err)
		}
		p.DOB = &dob
	}

	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, apperrors.Unavailable(err)
	}
	return p, nil
}

// List is the admin patient listing.
func (s *Service) List(ctx context.Context, session *auth.Session, filters *model.PatientFilters) ([]*model.Patient, error) {
	if !session.IsAdmin() {
		return nil, apperrors.Forbidden("admin access required")
	}
	patients, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Unavailable(err)
	}
	return patients, nil
}

// Delete removes a patient and their appointments.
func (s *Service) Delete(ctx context.Context, session *auth.Session, id uuid.UUID) error {
	if !session.IsAdmin() {
		return apperrors.Forbidden("admin access required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return apperrors.NotFound("patient", err)
		}
		return apperrors.Unavailable(err)
	}
	log.Info().Str("patient_id", id.String()).Str("admin", session.Email).Msg("patient deleted")
	return nil
}
