package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/medschedule-api/internal/repository"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, repository.ErrNotFound},
		{"slot", &pq.Error{Code: "23505", Constraint: constraintDoctorSlot}, repository.ErrSlotTaken},
		{"patient fk", &pq.Error{Code: "23503", Constraint: constraintPatientFK}, repository.ErrPatientMissing},
		{"doctor fk", &pq.Error{Code: "23503", Constraint: constraintDoctorFK}, repository.ErrDoctorMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	t.Run("other unique violation passes through", func(t *testing.T) {
		err := &pq.Error{Code: "23505", Constraint: "patients_pkey"}
		got := translateError(err)
		assert.False(t, errors.Is(got, repository.ErrSlotTaken))
		assert.Equal(t, err, got)
	})

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, translateError(nil))
	})
}
