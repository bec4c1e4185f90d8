package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shinely/config"
	providerRepo "shinely/database/repository/provider"
	"shinely/models"
	"shinely/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeSendReminder = "reminder:send"

// RedisOpt points asynq at the reminder queue database.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
}

// ReminderTaskID is unique per appointment placement, so re-enqueueing the
// same reminder is rejected by the queue instead of sending twice.
func ReminderTaskID(p models.ReminderPayload) string {
	return fmt.Sprintf("reminder:%s:%d", p.AppointmentID, p.RescheduleCount)
}

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(ReminderTaskID(payload)),
		asynq.MaxRetry(5),
	}
	return task, opts, nil
}

// PayloadFor captures the appointment placement a reminder refers to.
func PayloadFor(appt models.Appointment) models.ReminderPayload {
	return models.ReminderPayload{
		AppointmentID:   appt.ID,
		ProviderID:      appt.ProviderID,
		CustomerID:      appt.CustomerID,
		ScheduledDate:   appt.ScheduledDate,
		ScheduledTime:   appt.ScheduledTime,
		RescheduleCount: appt.RescheduleCount,
		Version:         appt.Version,
	}
}

// Enqueuer is the part of *asynq.Client the scheduler needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReminderScheduler queues a reminder Lead before each appointment starts.
type ReminderScheduler struct {
	Client    Enqueuer
	Providers providerRepo.ProviderRepository
	Lead      time.Duration
	Logger    *zap.Logger
	Now       func() time.Time
}

func (s *ReminderScheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ScheduleReminder enqueues the reminder. Appointments that already started are skipped.
func (s *ReminderScheduler) ScheduleReminder(ctx context.Context, appt models.Appointment) error {
	loc := time.UTC
	if provider, err := s.Providers.GetByID(ctx, appt.ProviderID); err == nil {
		loc = provider.Schedule.Location()
	} else if !errors.Is(err, providerRepo.ErrProviderNotFound) {
		return fmt.Errorf("failed to load provider timezone: %w", err)
	}

	start, err := StartTime(appt, loc)
	if err != nil {
		return err
	}
	now := s.now()
	if !start.After(now) {
		return nil
	}
	fireAt := start.Add(-s.Lead)
	if fireAt.Before(now) {
		fireAt = now
	}

	payload := PayloadFor(appt)
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}

	logger := s.Logger
	if logger == nil {
		logger = utils.GetLogger()
	}
	logger.Debug("reminder scheduled",
		zap.String("appointmentID", appt.ID),
		zap.Time("fireAt", fireAt))
	return nil
}

// StartTime resolves an appointment's start in the provider's timezone.
func StartTime(appt models.Appointment, loc *time.Location) (time.Time, error) {
	day, err := utils.ParseDate(appt.ScheduledDate)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), appt.ScheduledTime/60, appt.ScheduledTime%60, 0, 0, loc), nil
}
