package appointment

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/medschedule-api/internal/model"
	"github.com/jwalitptl/medschedule-api/internal/repository"
)

// memStore enforces the same one-live-booking-per-slot rule as the partial
// unique index, under a lock standing in for the database.
type memStore struct {
	mu       sync.Mutex
	patients map[uuid.UUID]bool
	doctors  map[uuid.UUID]bool
	rows     map[uuid.UUID]*model.Appointment

	creates int
	reads   int
	err     error
	listErr error
}

func newMemStore() *memStore {
	return &memStore{
		patients: map[uuid.UUID]bool{},
		doctors:  map[uuid.UUID]bool{},
		rows:     map[uuid.UUID]*model.Appointment{},
	}
}

func (m *memStore) Create(_ context.Context, a *model.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++

	if m.err != nil {
		return fmt.Errorf("failed to create appointment: %w", m.err)
	}
	if !m.patients[a.PatientID] {
		return fmt.Errorf("failed to create appointment: %w", repository.ErrPatientMissing)
	}
	if !m.doctors[a.DoctorID] {
		return fmt.Errorf("failed to create appointment: %w", repository.ErrDoctorMissing)
	}
	for _, row := range m.rows {
		if row.DoctorID == a.DoctorID && row.StartTime.Equal(a.StartTime) && row.Status != model.AppointmentStatusCancelled {
			return fmt.Errorf("failed to create appointment: %w", repository.ErrSlotTaken)
		}
	}
	cp := *a
	m.rows[a.ID] = &cp
	return nil
}

func (m *memStore) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (m *memStore) UpdateStatus(_ context.Context, id uuid.UUID, from, to model.AppointmentStatus) (*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || row.Status != from {
		return nil, repository.ErrStatusChanged
	}
	row.Status = to
	cp := *row
	return &cp, nil
}

func (m *memStore) ListBookedStarts(_ context.Context, doctorID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []time.Time
	for _, row := range m.rows {
		if row.DoctorID == doctorID && row.Status != model.AppointmentStatusCancelled &&
			!row.StartTime.Before(from) && row.StartTime.Before(to) {
			out = append(out, row.StartTime)
		}
	}
	return out, nil
}

func (m *memStore) List(_ context.Context, f *model.AppointmentFilters) ([]*model.AppointmentDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []*model.AppointmentDetail{}
	for _, row := range m.rows {
		if f != nil && f.PatientID != uuid.Nil && row.PatientID != f.PatientID {
			continue
		}
		if f != nil && f.Status != "" && row.Status != f.Status {
			continue
		}
		out = append(out, &model.AppointmentDetail{Appointment: *row})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (m *memStore) CountByStatus(context.Context) (map[model.AppointmentStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[model.AppointmentStatus]int{}
	for _, row := range m.rows {
		counts[row.Status]++
	}
	return counts, nil
}

type recordingDispatcher struct {
	mu    sync.Mutex
	calls []*model.Appointment
}

func (d *recordingDispatcher) Dispatch(_ context.Context, a *model.Appointment, _ string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, a)
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}
