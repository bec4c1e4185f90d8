package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	appointmentRepo "shinely/database/repository/appointment"
	providerRepo "shinely/database/repository/provider"
	"shinely/metrics"
	"shinely/models"
	"shinely/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSchedulingService implements SchedulingService.
type DefaultSchedulingService struct {
	Providers    providerRepo.ProviderRepository
	Appointments appointmentRepo.AppointmentRepository
	Availability *DefaultAvailabilityCalculator
	Locker       Locker
	Reminders    ReminderScheduler // optional
	Policy       ReschedulePolicy
	Metrics      *metrics.EngineMetrics
	Logger       *zap.Logger
	Now          func() time.Time
}

func (s *DefaultSchedulingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultSchedulingService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return utils.GetLogger()
}

func (s *DefaultSchedulingService) Quote(ctx context.Context, providerID string, items []models.BookingCartItem) (*models.Quote, error) {
	provider, err := loadProvider(ctx, s.Providers, providerID)
	if err != nil {
		return nil, err
	}
	return Aggregate(*provider, items)
}

// ConfirmBooking re-validates the requested start under the provider-day lock
// and persists one appointment per cart item, all starting together.
func (s *DefaultSchedulingService) ConfirmBooking(ctx context.Context, req models.BookingRequest) (*models.BookingConfirmation, error) {
	confirmation, err := s.confirmBooking(ctx, req)
	s.Metrics.ObserveBooking(outcome(err))
	return confirmation, err
}

func (s *DefaultSchedulingService) confirmBooking(ctx context.Context, req models.BookingRequest) (*models.BookingConfirmation, error) {
	logger := s.logger()

	start, err := parseStart(req.Date, req.StartTime, "startTime")
	if err != nil {
		return nil, err
	}
	site := req.Site()
	if !site.Geo.Valid() {
		return nil, invalidInput(CodeInvalidLocation, "location", "latitude or longitude out of range")
	}
	provider, err := loadProvider(ctx, s.Providers, req.ProviderID)
	if err != nil {
		return nil, err
	}
	quote, err := Aggregate(*provider, req.Items)
	if err != nil {
		return nil, err
	}
	if err := s.rejectPast(*provider, req.Date, start); err != nil {
		return nil, err
	}

	release, err := s.Locker.Acquire(ctx, LockKey(provider.ID, req.Date))
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, release)

	slot, err := s.Availability.classifyFor(ctx, provider, SlotQuery{
		ProviderID:           provider.ID,
		Date:                 req.Date,
		TotalDurationMinutes: quote.TotalDuration,
		JobSite:              &site,
	}, start)
	if err != nil {
		return nil, err
	}
	if !slot.Available {
		logger.Info("booking rejected at write time",
			zap.String("providerID", provider.ID),
			zap.String("date", req.Date),
			zap.String("startTime", req.StartTime),
			zap.String("reason", string(slot.Reason)))
		return nil, slotUnavailable(slot.Reason)
	}

	now := s.now()
	bookingID := uuid.NewString()
	appts := make([]models.Appointment, 0, len(quote.Lines))
	for _, line := range quote.Lines {
		appts = append(appts, models.Appointment{
			ID:            uuid.NewString(),
			ProviderID:    provider.ID,
			CustomerID:    req.CustomerID,
			BookingID:     bookingID,
			ServiceID:     line.Item.ServiceID,
			BodyType:      line.Item.BodyType,
			LuxuryCare:    line.Item.LuxuryCare,
			Price:         line.Price,
			Currency:      quote.Currency,
			ScheduledDate: req.Date,
			ScheduledTime: start,
			Duration:      line.Duration,
			Site:          site,
			Status:        models.StatusScheduled,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	if err := s.Appointments.CreateMany(ctx, appts); err != nil {
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	for _, appt := range appts {
		s.scheduleReminder(ctx, appt)
	}
	logger.Info("booking confirmed",
		zap.String("bookingID", bookingID),
		zap.String("providerID", provider.ID),
		zap.String("date", req.Date),
		zap.Int("vehicles", len(appts)),
		zap.Int("duration", quote.TotalDuration))
	return &models.BookingConfirmation{BookingID: bookingID, Appointments: appts, Quote: *quote}, nil
}

// Reschedule moves an appointment if the policy allows it and the new start is
// free once the appointment itself is set aside.
func (s *DefaultSchedulingService) Reschedule(ctx context.Context, req models.RescheduleRequest) (*models.Appointment, error) {
	appt, err := s.reschedule(ctx, req)
	s.Metrics.ObserveReschedule(outcome(err))
	return appt, err
}

func (s *DefaultSchedulingService) reschedule(ctx context.Context, req models.RescheduleRequest) (*models.Appointment, error) {
	if strings.TrimSpace(req.AppointmentID) == "" {
		return nil, notFound("appointment id is required")
	}
	newTime, err := parseStart(req.NewDate, req.NewTime, "newTime")
	if err != nil {
		return nil, err
	}
	current, err := s.getAppointment(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}

	release, err := AcquireAll(ctx, s.Locker,
		LockKey(current.ProviderID, current.ScheduledDate),
		LockKey(current.ProviderID, req.NewDate))
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, release)

	// Another writer may have moved it while we waited for the locks.
	appt, err := s.getAppointment(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appt.ScheduledDate != current.ScheduledDate {
		return nil, conflict(CodeStaleVersion, "appointment moved while the request was waiting")
	}
	if err := s.Policy.Check(*appt); err != nil {
		return nil, err
	}

	provider, err := loadProvider(ctx, s.Providers, appt.ProviderID)
	if err != nil {
		return nil, err
	}
	if err := s.rejectPast(*provider, req.NewDate, newTime); err != nil {
		return nil, err
	}
	slot, err := s.Availability.classifyFor(ctx, provider, SlotQuery{
		ProviderID:            provider.ID,
		Date:                  req.NewDate,
		TotalDurationMinutes:  appt.Duration,
		JobSite:               &appt.Site,
		ExcludeAppointmentIDs: []string{appt.ID},
	}, newTime)
	if err != nil {
		return nil, err
	}
	if !slot.Available {
		return nil, slotUnavailable(slot.Reason)
	}

	expected := appt.Version
	if err := s.Policy.Apply(appt, req.NewDate, newTime, req.Reason, s.now()); err != nil {
		return nil, err
	}
	if err := s.update(ctx, appt, expected); err != nil {
		return nil, err
	}
	s.scheduleReminder(ctx, *appt)
	s.logger().Info("appointment rescheduled",
		zap.String("appointmentID", appt.ID),
		zap.String("date", appt.ScheduledDate),
		zap.String("time", utils.FormatClock(appt.ScheduledTime)),
		zap.Int("rescheduleCount", appt.RescheduleCount))
	return appt, nil
}

// MarkArrived sets isArrived and clears isMissed. Repeating it changes nothing.
func (s *DefaultSchedulingService) MarkArrived(ctx context.Context, id string) (*models.Appointment, error) {
	return s.transition(ctx, id, ActionArrive, func(a *models.Appointment) (bool, error) {
		if a.IsArrived && !a.IsMissed {
			return false, nil
		}
		a.IsArrived = true
		a.IsMissed = false
		return true, nil
	})
}

// MarkMissed flags a no-show. An arrived appointment cannot be missed.
func (s *DefaultSchedulingService) MarkMissed(ctx context.Context, id string) (*models.Appointment, error) {
	return s.transition(ctx, id, ActionMarkMissed, func(a *models.Appointment) (bool, error) {
		if a.IsArrived {
			return false, invalidInput(CodeInvalidTransition, "isMissed", "provider already arrived at this appointment")
		}
		if a.IsMissed {
			return false, nil
		}
		a.IsMissed = true
		return true, nil
	})
}

func (s *DefaultSchedulingService) UndoMissed(ctx context.Context, id string) (*models.Appointment, error) {
	return s.transition(ctx, id, ActionUndoMissed, func(a *models.Appointment) (bool, error) {
		if !a.IsMissed {
			return false, nil
		}
		a.IsMissed = false
		return true, nil
	})
}

// Cancel releases the appointment's time. It is never deleted.
func (s *DefaultSchedulingService) Cancel(ctx context.Context, id string) (*models.Appointment, error) {
	return s.transition(ctx, id, ActionCancel, func(a *models.Appointment) (bool, error) {
		a.Status = models.StatusCancelled
		return true, nil
	})
}

func (s *DefaultSchedulingService) Complete(ctx context.Context, id string) (*models.Appointment, error) {
	return s.transition(ctx, id, ActionComplete, func(a *models.Appointment) (bool, error) {
		a.Status = models.StatusCompleted
		return true, nil
	})
}

func (s *DefaultSchedulingService) DayAppointments(ctx context.Context, providerID, date string) ([]models.Appointment, error) {
	if _, err := utils.ParseDate(date); err != nil {
		return nil, invalidInput(CodeInvalidDate, "date", fmt.Sprintf("date %q must be YYYY-MM-DD", date))
	}
	if _, err := loadProvider(ctx, s.Providers, providerID); err != nil {
		return nil, err
	}
	appts, err := s.Appointments.ListByProviderDate(ctx, providerID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	return appts, nil
}

// transition applies a flag or status change guarded by the transition table
// and the stored version. mutate reports whether anything changed.
func (s *DefaultSchedulingService) transition(ctx context.Context, id string, action Action, mutate func(*models.Appointment) (bool, error)) (*models.Appointment, error) {
	appt, err := s.getAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := NextStatus(appt.Status, action)
	if err != nil {
		return nil, err
	}
	expected := appt.Version
	changed, err := mutate(appt)
	if err != nil {
		return nil, err
	}
	if !changed {
		return appt, nil
	}
	appt.Status = next
	if err := s.update(ctx, appt, expected); err != nil {
		return nil, err
	}
	s.logger().Info("appointment updated",
		zap.String("appointmentID", appt.ID),
		zap.String("action", string(action)),
		zap.String("phase", appt.Phase()))
	return appt, nil
}

func (s *DefaultSchedulingService) getAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := s.Appointments.GetByID(ctx, id)
	if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
		return nil, notFound(fmt.Sprintf("no such appointment %q", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load appointment %s: %w", id, err)
	}
	return appt, nil
}

func (s *DefaultSchedulingService) update(ctx context.Context, appt *models.Appointment, expected int) error {
	err := s.Appointments.Update(ctx, appt, expected)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, appointmentRepo.ErrVersionConflict):
		return conflict(CodeStaleVersion, "appointment was changed by another request")
	case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
		return notFound(fmt.Sprintf("no such appointment %q", appt.ID))
	}
	return fmt.Errorf("failed to update appointment %s: %w", appt.ID, err)
}

// rejectPast refuses starts that are not in the future in the provider's timezone.
func (s *DefaultSchedulingService) rejectPast(provider models.Provider, date string, start int) error {
	day, err := utils.ParseDate(date)
	if err != nil {
		return invalidInput(CodeInvalidDate, "date", fmt.Sprintf("date %q must be YYYY-MM-DD", date))
	}
	loc := provider.Schedule.Location()
	startAt := time.Date(day.Year(), day.Month(), day.Day(), start/60, start%60, 0, 0, loc)
	if !startAt.After(s.now()) {
		return invalidInput(CodeStartInPast, "startTime", "requested start is in the past")
	}
	return nil
}

func (s *DefaultSchedulingService) scheduleReminder(ctx context.Context, appt models.Appointment) {
	if s.Reminders == nil {
		return
	}
	if err := s.Reminders.ScheduleReminder(ctx, appt); err != nil {
		s.logger().Warn("failed to schedule reminder",
			zap.String("appointmentID", appt.ID), zap.Error(err))
	}
}

func (s *DefaultSchedulingService) release(ctx context.Context, release ReleaseFunc) {
	if err := release(context.WithoutCancel(ctx)); err != nil {
		s.logger().Warn("failed to release lock", zap.Error(err))
	}
}

// parseStart validates a date and an "HH:MM" clock.
func parseStart(date, clock, field string) (int, error) {
	if _, err := utils.ParseDate(date); err != nil {
		return 0, invalidInput(CodeInvalidDate, "date", fmt.Sprintf("date %q must be YYYY-MM-DD", date))
	}
	start, err := utils.ParseClock(clock)
	if err != nil {
		return 0, invalidInput(CodeInvalidTime, field, fmt.Sprintf("time %q must be HH:MM", clock))
	}
	return start, nil
}
