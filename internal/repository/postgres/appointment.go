package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/medschedule-api/internal/model"
	"github.com/jwalitptl/medschedule-api/internal/repository"
	"github.com/jwalitptl/medschedule-api/pkg/metrics"
)

const appointmentColumns = `id, patient_id, doctor_id, start_time, end_time, duration_minutes,
	status, is_new_patient, notes, created_at, updated_at`

type appointmentRepository struct {
	baseRepository
}

func NewAppointmentRepository(db *sqlx.DB, m *metrics.Metrics) repository.AppointmentRepository {
	return &appointmentRepository{baseRepository{db: db, metrics: m}}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) (err error) {
	defer func(start time.Time) { r.observe("appointments.create", start, err) }(time.Now())

	query := `
		INSERT INTO appointments (
			id, patient_id, doctor_id, start_time, end_time, duration_minutes,
			status, is_new_patient, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	now := time.Now().UTC()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	_, err = r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.PatientID,
		appointment.DoctorID,
		appointment.StartTime,
		appointment.EndTime,
		appointment.DurationMinutes,
		appointment.Status,
		appointment.IsNewPatient,
		appointment.Notes,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", translateError(err))
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (_ *model.Appointment, err error) {
	defer func(start time.Time) { r.observe("appointments.get", start, err) }(time.Now())

	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	var appointment model.Appointment
	if err = r.db.GetContext(ctx, &appointment, query, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", translateError(err))
	}
	return &appointment, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus) (_ *model.Appointment, err error) {
	defer func(start time.Time) { r.observe("appointments.update_status", start, err) }(time.Now())

	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
		RETURNING ` + appointmentColumns

	var appointment model.Appointment
	err = r.db.GetContext(ctx, &appointment, query, to, time.Now().UTC(), id, from)
	if err != nil {
		err = translateError(err)
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %w", repository.ErrStatusChanged, err)
		}
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) ListBookedStarts(ctx context.Context, doctorID uuid.UUID, from, to time.Time) (starts []time.Time, err error) {
	defer func(start time.Time) { r.observe("appointments.booked_starts", start, err) }(time.Now())

	query := `
		SELECT start_time
		FROM appointments
		WHERE doctor_id = $1
		  AND start_time >= $2
		  AND start_time < $3
		  AND status <> 'cancelled'
		ORDER BY start_time
	`
	starts = []time.Time{}
	if err = r.db.SelectContext(ctx, &starts, query, doctorID, from, to); err != nil {
		return nil, fmt.Errorf("failed to list booked slots: %w", translateError(err))
	}
	return starts, nil
}

// detailDataset selects appointments joined with patient and doctor names.
func detailDataset() *goqu.SelectDataset {
	return dialect.From(goqu.T("appointments").As("a")).
		Join(goqu.T("patients").As("p"), goqu.On(goqu.I("p.id").Eq(goqu.I("a.patient_id")))).
		Join(goqu.T("doctors").As("d"), goqu.On(goqu.I("d.id").Eq(goqu.I("a.doctor_id")))).
		Select(
			goqu.I("a.id"), goqu.I("a.patient_id"), goqu.I("a.doctor_id"),
			goqu.I("a.start_time"), goqu.I("a.end_time"), goqu.I("a.duration_minutes"),
			goqu.I("a.status"), goqu.I("a.is_new_patient"), goqu.I("a.notes"),
			goqu.I("a.created_at"), goqu.I("a.updated_at"),
			goqu.I("d.name").As("doctor_name"),
			goqu.I("d.specialty").As("doctor_specialty"),
			goqu.L(`TRIM(p.first_name || ' ' || p.last_name)`).As("patient_name"),
			goqu.I("p.email").As("patient_email"),
			goqu.I("p.phone").As("patient_phone"),
			goqu.I("p.insurance_carrier").As("insurance_carrier"),
		).
		Prepared(true)
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) (appointments []*model.AppointmentDetail, err error) {
	defer func(start time.Time) { r.observe("appointments.list", start, err) }(time.Now())

	ds := detailDataset()
	if filters != nil {
		if filters.PatientID != uuid.Nil {
			ds = ds.Where(goqu.I("a.patient_id").Eq(filters.PatientID.String()))
		}
		if filters.DoctorID != uuid.Nil {
			ds = ds.Where(goqu.I("a.doctor_id").Eq(filters.DoctorID.String()))
		}
		if filters.Status != "" {
			ds = ds.Where(goqu.I("a.status").Eq(string(filters.Status)))
		}
		if !filters.From.IsZero() {
			ds = ds.Where(goqu.I("a.start_time").Gte(filters.From))
		}
		if !filters.To.IsZero() {
			ds = ds.Where(goqu.I("a.start_time").Lt(filters.To))
		}
		if filters.Limit > 0 {
			ds = ds.Limit(uint(filters.Limit))
		}
		if filters.Offset > 0 {
			ds = ds.Offset(uint(filters.Offset))
		}
	}
	ds = ds.Order(goqu.I("a.start_time").Asc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build appointment list query: %w", err)
	}

	appointments = []*model.AppointmentDetail{}
	if err = r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", translateError(err))
	}
	return appointments, nil
}

func (r *appointmentRepository) CountByStatus(ctx context.Context) (_ map[model.AppointmentStatus]int, err error) {
	defer func(start time.Time) { r.observe("appointments.count_by_status", start, err) }(time.Now())

	var rows []struct {
		Status model.AppointmentStatus `db:"status"`
		Count  int                     `db:"count"`
	}
	query := `SELECT status, COUNT(*) AS count FROM appointments GROUP BY status`
	if err = r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count appointments: %w", translateError(err))
	}

	counts := make(map[model.AppointmentStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
