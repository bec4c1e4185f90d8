package appointmentRepo

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"shinely/models"
)

// MemoryAppointmentRepo is an in-process AppointmentRepository used by tests
// and single-node development runs. It honours the same version discipline as
// the Mongo implementation.
type MemoryAppointmentRepo struct {
	mu    sync.RWMutex
	appts map[string]models.Appointment
}

func NewMemoryAppointmentRepo(seed ...models.Appointment) *MemoryAppointmentRepo {
	r := &MemoryAppointmentRepo{appts: make(map[string]models.Appointment, len(seed))}
	for _, a := range seed {
		r.appts[a.ID] = clone(a)
	}
	return r
}

func clone(a models.Appointment) models.Appointment {
	a.RescheduleHistory = slices.Clone(a.RescheduleHistory)
	return a
}

func (r *MemoryAppointmentRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	a = clone(a)
	return &a, nil
}

func (r *MemoryAppointmentRepo) ListByProviderDate(_ context.Context, providerID, date string) ([]models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Appointment
	for _, a := range r.appts {
		if a.ProviderID == providerID && a.ScheduledDate == date {
			out = append(out, clone(a))
		}
	}
	slices.SortFunc(out, func(a, b models.Appointment) int {
		if a.ScheduledTime != b.ScheduledTime {
			return a.ScheduledTime - b.ScheduledTime
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out, nil
}

func (r *MemoryAppointmentRepo) CreateMany(_ context.Context, appts []models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range appts {
		if _, exists := r.appts[a.ID]; exists {
			return fmt.Errorf("failed to create appointments: duplicate id %s", a.ID)
		}
	}
	for _, a := range appts {
		r.appts[a.ID] = clone(a)
	}
	return nil
}

func (r *MemoryAppointmentRepo) Update(_ context.Context, appt *models.Appointment, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.appts[appt.ID]
	if !ok {
		return ErrAppointmentNotFound
	}
	if stored.Version != expectedVersion {
		return ErrVersionConflict
	}
	next := clone(*appt)
	next.Version = expectedVersion + 1
	next.UpdatedAt = time.Now()
	r.appts[appt.ID] = next
	*appt = clone(next)
	return nil
}
