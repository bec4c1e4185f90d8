package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	appointmentRepo "shinely/database/repository/appointment"
	"shinely/models"
	"shinely/services/notification"
	"shinely/services/tasks"
	"shinely/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ReminderWorker sends queued appointment reminders.
type ReminderWorker struct {
	Appointments appointmentRepo.AppointmentRepository
	Notifier     notification.NotificationService
	Logger       *zap.Logger
}

func (w *ReminderWorker) logger() *zap.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return utils.GetLogger()
}

// HandleReminder drops reminders whose appointment was moved, cancelled or
// completed after the task was queued.
func (w *ReminderWorker) HandleReminder(ctx context.Context, task *asynq.Task) error {
	logger := w.logger()

	var p models.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		logger.Error("invalid reminder payload", zap.Error(err))
		return fmt.Errorf("invalid reminder payload: %v: %w", err, asynq.SkipRetry)
	}

	appt, err := w.Appointments.GetByID(ctx, p.AppointmentID)
	if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
		logger.Warn("reminder for unknown appointment", zap.String("appointmentID", p.AppointmentID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load appointment %s: %w", p.AppointmentID, err)
	}
	if stale(p, *appt) {
		logger.Info("skipping stale reminder",
			zap.String("appointmentID", appt.ID),
			zap.String("status", string(appt.Status)),
			zap.Int("queuedFor", p.RescheduleCount),
			zap.Int("rescheduleCount", appt.RescheduleCount))
		return nil
	}

	if err := w.Notifier.SendAppointmentReminder(ctx, *appt); err != nil {
		logger.Error("failed to send reminder", zap.String("appointmentID", appt.ID), zap.Error(err))
		return err
	}
	return nil
}

func stale(p models.ReminderPayload, appt models.Appointment) bool {
	return appt.Status.Terminal() ||
		appt.RescheduleCount != p.RescheduleCount ||
		appt.ScheduledDate != p.ScheduledDate ||
		appt.ScheduledTime != p.ScheduledTime
}

// NewReminderServer builds the asynq server for the reminder queue.
func NewReminderServer() *asynq.Server {
	return asynq.NewServer(
		tasks.RedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)
}

// InitReminderWorker runs the async worker in background. The returned server
// should be shut down on exit.
func InitReminderWorker(worker *ReminderWorker) *asynq.Server {
	srv := NewReminderServer()
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, worker.HandleReminder)

	logger := worker.logger()
	go func() {
		logger.Info("starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil || errors.Is(err, asynq.ErrServerClosed) {
				return
			}
			logger.Error("reminder worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("reminder worker gave up; reminders will not be sent")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}
