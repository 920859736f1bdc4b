package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/medschedule-api/internal/model"
	"github.com/jwalitptl/medschedule-api/internal/repository"
	"github.com/jwalitptl/medschedule-api/pkg/metrics"
)

const doctorColumns = `id, name, specialty, location, calendar_reference, created_at, updated_at`

type doctorRepository struct {
	baseRepository
}

func NewDoctorRepository(db *sqlx.DB, m *metrics.Metrics) repository.DoctorRepository {
	return &doctorRepository{baseRepository{db: db, metrics: m}}
}

func (r *doctorRepository) List(ctx context.Context) (doctors []*model.Doctor, err error) {
	defer func(start time.Time) { r.observe("doctors.list", start, err) }(time.Now())

	query := `SELECT ` + doctorColumns + ` FROM doctors ORDER BY name`
	doctors = []*model.Doctor{}
	if err = r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", translateError(err))
	}
	return doctors, nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (_ *model.Doctor, err error) {
	defer func(start time.Time) { r.observe("doctors.get", start, err) }(time.Now())

	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE id = $1`
	var doctor model.Doctor
	if err = r.db.GetContext(ctx, &doctor, query, id); err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", translateError(err))
	}
	return &doctor, nil
}
