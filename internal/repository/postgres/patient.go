package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/medschedule-api/internal/model"
	"github.com/jwalitptl/medschedule-api/internal/repository"
	"github.com/jwalitptl/medschedule-api/pkg/metrics"
)

const patientColumns = `id, email, first_name, last_name, dob, phone, address,
	insurance_carrier, member_id, group_id, patient_type, created_at, updated_at`

type patientRepository struct {
	baseRepository
}

func NewPatientRepository(db *sqlx.DB, m *metrics.Metrics) repository.PatientRepository {
	return &patientRepository{baseRepository{db: db, metrics: m}}
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (_ *model.Patient, err error) {
	defer func(start time.Time) { r.observe("patients.get", start, err) }(time.Now())

	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	var patient model.Patient
	if err = r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", translateError(err))
	}
	return &patient, nil
}

// Upsert creates the profile or replaces its editable fields. created_at is
// kept from the first insert.
func (r *patientRepository) Upsert(ctx context.Context, patient *model.Patient) (err error) {
	defer func(start time.Time) { r.observe("patients.upsert", start, err) }(time.Now())

	query := `
		INSERT INTO patients (
			id, email, first_name, last_name, dob, phone, address,
			insurance_carrier, member_id, group_id, patient_type, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			dob = EXCLUDED.dob,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			insurance_carrier = EXCLUDED.insurance_carrier,
			member_id = EXCLUDED.member_id,
			group_id = EXCLUDED.group_id,
			patient_type = EXCLUDED.patient_type,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`
	now := time.Now().UTC()
	err = r.db.QueryRowxContext(ctx, query,
		patient.ID,
		patient.Email,
		patient.FirstName,
		patient.LastName,
		patient.DOB,
		patient.Phone,
		patient.Address,
		patient.InsuranceCarrier,
		patient.MemberID,
		patient.GroupID,
		patient.PatientType,
		now,
	).Scan(&patient.CreatedAt, &patient.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save patient: %w", translateError(err))
	}
	return nil
}

// Delete removes the patient; their appointments go with them.
func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer func(start time.Time) { r.observe("patients.delete", start, err) }(time.Now())

	result, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", translateError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("failed to delete patient: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) (patients []*model.Patient, err error) {
	defer func(start time.Time) { r.observe("patients.list", start, err) }(time.Now())

	ds := dialect.From("patients").
		Select(
			"id", "email", "first_name", "last_name", "dob", "phone", "address",
			"insurance_carrier", "member_id", "group_id", "patient_type", "created_at", "updated_at",
		).
		Prepared(true)

	if filters != nil {
		if search := strings.TrimSpace(filters.Search); search != "" {
			pattern := "%" + search + "%"
			ds = ds.Where(goqu.Or(
				goqu.I("first_name").ILike(pattern),
				goqu.I("last_name").ILike(pattern),
				goqu.I("email").ILike(pattern),
				goqu.I("phone").ILike(pattern),
			))
		}
		if filters.Limit > 0 {
			ds = ds.Limit(uint(filters.Limit))
		}
		if filters.Offset > 0 {
			ds = ds.Offset(uint(filters.Offset))
		}
	}
	ds = ds.Order(goqu.I("created_at").Desc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build patient list query: %w", err)
	}

	patients = []*model.Patient{}
	if err = r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", translateError(err))
	}
	return patients, nil
}

func (r *patientRepository) CountByType(ctx context.Context) (_ map[model.PatientType]int, err error) {
	defer func(start time.Time) { r.observe("patients.count_by_type", start, err) }(time.Now())

	var rows []struct {
		PatientType model.PatientType `db:"patient_type"`
		Count       int               `db:"count"`
	}
	query := `SELECT patient_type, COUNT(*) AS count FROM patients GROUP BY patient_type`
	if err = r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count patients: %w", translateError(err))
	}

	counts := make(map[model.PatientType]int, len(rows))
	for _, row := range rows {
		counts[row.PatientType] = row.Count
	}
	return counts, nil
}
