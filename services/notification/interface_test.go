package notification

import (
	"context"
	"testing"

	"shinely/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestReminderMessage(t *testing.T) {
	appt := models.Appointment{BodyType: models.BodySUV, ScheduledDate: "2025-03-03", ScheduledTime: 570}
	_, body := ReminderMessage(appt)
	assert.Equal(t, "Your suv is booked for 2025-03-03 at 09:30.", body)

	appt.Site.Address = "12 Elm Street"
	_, body = ReminderMessage(appt)
	assert.Equal(t, "Your suv is booked for 2025-03-03 at 09:30, 12 Elm Street.", body)
}

func TestLogNotificationService(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc := &LogNotificationService{Logger: zap.New(core)}

	err := svc.SendAppointmentReminder(context.Background(), models.Appointment{ID: "a1", CustomerID: "c1"})
	assert.NoError(t, err)
	entries := logs.FilterMessage("appointment reminder").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "a1", entries[0].ContextMap()["appointmentID"])
	}
}
