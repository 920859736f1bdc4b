package doctor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/medschedule-api/internal/model"
	"github.com/jwalitptl/medschedule-api/internal/repository"
	"github.com/jwalitptl/medschedule-api/internal/schedule"
	apperrors "github.com/jwalitptl/medschedule-api/pkg/errors"
)

const listKey = "doctors"

// Service serves the doctor directory. The directory changes rarely, so the
// list is cached for ttl; availability is never cached.
type Service struct {
	repo   repository.DoctorRepository
	window schedule.Window
	cache  *cache.Cache
}

func NewService(repo repository.DoctorRepository, window schedule.Window, ttl time.Duration) *Service {
	return &Service{
		repo:   repo,
		window: window,
		cache:  cache.New(ttl, 2*ttl),
	}
}

// List returns doctors ordered by name.
func (s *Service) List(ctx context.Context) ([]*model.Doctor, error) {
	if cached, ok := s.cache.Get(listKey); ok {
		return cached.([]*model.Doctor), nil
	}

	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Unavailable(err)
	}
	s.cache.SetDefault(listKey, doctors)
	return doctors, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, apperrors.Unavailable(err)
	}
	return doctor, nil
}

// Schedules pairs each doctor with the daily slot template for the admin view.
func (s *Service) Schedules(ctx context.Context) ([]*model.DoctorSchedule, error) {
	doctors, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	slots := s.window.Times()
	out := make([]*model.DoctorSchedule, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, &model.DoctorSchedule{Doctor: d, Slots: slots})
	}
	return out, nil
}
