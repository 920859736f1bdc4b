package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/jwalitptl/medschedule-api/internal/repository"
)

// Constraint names from the migrations.
const (
	constraintDoctorSlot = "appointments_doctor_slot_key"
	constraintPatientFK  = "appointments_patient_id_fkey"
	constraintDoctorFK   = "appointments_doctor_id_fkey"
)

// translateError maps driver errors onto repository sentinels, keeping the
// original in the chain.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", repository.ErrNotFound, err)
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code.Name() {
	case "unique_violation":
		if pqErr.Constraint == constraintDoctorSlot {
			return fmt.Errorf("%w: %w", repository.ErrSlotTaken, err)
		}
	case "foreign_key_violation":
		switch pqErr.Constraint {
		case constraintPatientFK:
			return fmt.Errorf("%w: %w", repository.ErrPatientMissing, err)
		case constraintDoctorFK:
			return fmt.Errorf("%w: %w", repository.ErrDoctorMissing, err)
		}
	}
	return err
}
