package appointmentRepo

import (
	"context"
	"errors"

	"shinely/models"
)

var (
	// ErrAppointmentNotFound is returned when no appointment has the requested id.
	ErrAppointmentNotFound = errors.New("appointment not found")
	// ErrVersionConflict is returned when an update was based on a stale version.
	ErrVersionConflict = errors.New("appointment version conflict")
)

// AppointmentRepository is the appointment store. Appointments are never hard-deleted.
type AppointmentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// ListByProviderDate returns every appointment of the provider on date, any status.
	ListByProviderDate(ctx context.Context, providerID, date string) ([]models.Appointment, error)
	// CreateMany inserts the appointments of one booking.
	CreateMany(ctx context.Context, appts []models.Appointment) error
	// Update persists appt if the stored version still equals expectedVersion.
	// On success appt.Version is expectedVersion+1.
	Update(ctx context.Context, appt *models.Appointment, expectedVersion int) error
}
