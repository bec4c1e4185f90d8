package notification

import (
	"context"
	"fmt"

	"shinely/models"
	"shinely/utils"

	"go.uber.org/zap"
)

// NotificationService delivers customer-facing appointment messages.
type NotificationService interface {
	SendAppointmentReminder(ctx context.Context, appt models.Appointment) error
}

// ReminderMessage builds the title and body of a reminder.
func ReminderMessage(appt models.Appointment) (string, string) {
	title := "Your detailing appointment is coming up"
	when := fmt.Sprintf("%s at %s", appt.ScheduledDate, utils.FormatClock(appt.ScheduledTime))
	if appt.Site.Address != "" {
		return title, fmt.Sprintf("Your %s is booked for %s, %s.", appt.BodyType, when, appt.Site.Address)
	}
	return title, fmt.Sprintf("Your %s is booked for %s.", appt.BodyType, when)
}

// LogNotificationService writes reminders to the structured log. It is the
// default sender until a push or SMS channel is configured.
type LogNotificationService struct {
	Logger *zap.Logger
}

func (s *LogNotificationService) SendAppointmentReminder(_ context.Context, appt models.Appointment) error {
	logger := s.Logger
	if logger == nil {
		logger = utils.GetLogger()
	}
	title, body := ReminderMessage(appt)
	logger.Info("appointment reminder",
		zap.String("appointmentID", appt.ID),
		zap.String("customerID", appt.CustomerID),
		zap.String("title", title),
		zap.String("body", body))
	return nil
}
