package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medschedule-api/internal/model"
	"github.com/jwalitptl/medschedule-api/internal/repository"
	"github.com/jwalitptl/medschedule-api/internal/service/auth"
	apperrors "github.com/jwalitptl/medschedule-api/pkg/errors"
)

type stubAppointments struct {
	repository.AppointmentRepository
	counts map[model.AppointmentStatus]int
	err    error
}

func (s stubAppointments) CountByStatus(context.Context) (map[model.AppointmentStatus]int, error) {
	return s.counts, s.err
}

type stubPatients struct {
	repository.PatientRepository
	counts map[model.PatientType]int
}

func (s stubPatients) CountByType(context.Context) (map[model.PatientType]int, error) {
	return s.counts, nil
}

var admin = &auth.Session{Role: auth.RoleAdmin, Email: "admin@clinic.com", ExpiresAt: time.Now().Add(time.Hour)}

func TestStats(t *testing.T) {
	svc := NewService(
		stubAppointments{counts: map[model.AppointmentStatus]int{
			model.AppointmentStatusPending:   4,
			model.AppointmentStatusConfirmed: 7,
			model.AppointmentStatusCancelled: 1,
		}},
		stubPatients{counts: map[model.PatientType]int{
			model.PatientTypeNew:       3,
			model.PatientTypeReturning: 5,
		}},
	)

	stats, err := svc.Stats(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, model.DashboardStats{
		TotalAppointments:     12,
		ConfirmedAppointments: 7,
		PendingAppointments:   4,
		CancelledAppointments: 1,
		TotalPatients:         8,
		NewPatients:           3,
		ReturningPatients:     5,
	}, *stats)
}

func TestStatsEmptyStore(t *testing.T) {
	svc := NewService(stubAppointments{counts: map[model.AppointmentStatus]int{}}, stubPatients{counts: map[model.PatientType]int{}})

	stats, err := svc.Stats(context.Background(), admin)
	require.NoError(t, err)
	assert.Zero(t, *stats)
}

func TestStatsErrors(t *testing.T) {
	svc := NewService(stubAppointments{err: errors.New("down")}, stubPatients{})

	_, err := svc.Stats(context.Background(), admin)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnavailable))

	_, err = svc.Stats(context.Background(), &auth.Session{PatientID: uuid.New(), Role: auth.RolePatient})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}
