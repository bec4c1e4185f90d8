package booking

import (
	"context"

	"shinely/models"
)

// SchedulingService is the write side of the engine: quoting, booking and
// every appointment transition.
type SchedulingService interface {
	Quote(ctx context.Context, providerID string, items []models.BookingCartItem) (*models.Quote, error)
	ConfirmBooking(ctx context.Context, req models.BookingRequest) (*models.BookingConfirmation, error)
	Reschedule(ctx context.Context, req models.RescheduleRequest) (*models.Appointment, error)
	MarkArrived(ctx context.Context, appointmentID string) (*models.Appointment, error)
	MarkMissed(ctx context.Context, appointmentID string) (*models.Appointment, error)
	UndoMissed(ctx context.Context, appointmentID string) (*models.Appointment, error)
	Cancel(ctx context.Context, appointmentID string) (*models.Appointment, error)
	Complete(ctx context.Context, appointmentID string) (*models.Appointment, error)
	DayAppointments(ctx context.Context, providerID, date string) ([]models.Appointment, error)
}

// ReminderScheduler queues a customer reminder for an appointment.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, appt models.Appointment) error
}
