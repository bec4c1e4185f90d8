package booking

import (
	"context"
	"errors"
	"fmt"

	appointmentRepo "shinely/database/repository/appointment"
	providerRepo "shinely/database/repository/provider"
	"shinely/metrics"
	"shinely/models"
	"shinely/utils"

	"go.uber.org/zap"
)

// SlotQuery asks for a provider's slots on one date.
type SlotQuery struct {
	ProviderID           string
	Date                 string // "2006-01-02"
	TotalDurationMinutes int
	JobSite              *models.JobSite // optional
	// ExcludeAppointmentIDs are ignored when checking conflicts, e.g. the appointment being moved.
	ExcludeAppointmentIDs []string
}

// AvailabilityCalculator answers slot queries. Results are point-in-time
// snapshots and take no locks.
type AvailabilityCalculator interface {
	ComputeSlots(ctx context.Context, q SlotQuery) ([]models.TimeSlot, error)
	ClassifyStart(ctx context.Context, q SlotQuery, start int) (models.TimeSlot, error)
}

// DefaultAvailabilityCalculator reads providers and appointments from the repositories.
type DefaultAvailabilityCalculator struct {
	Providers    providerRepo.ProviderRepository
	Appointments appointmentRepo.AppointmentRepository
	Granularity  int
	Metrics      *metrics.EngineMetrics
	Logger       *zap.Logger
}

func (c *DefaultAvailabilityCalculator) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return utils.GetLogger()
}

// ComputeSlots returns every grid start of the day, in order, classified for
// the requested duration.
func (c *DefaultAvailabilityCalculator) ComputeSlots(ctx context.Context, q SlotQuery) ([]models.TimeSlot, error) {
	provider, err := c.loadProvider(ctx, q)
	if err != nil {
		c.Metrics.ObserveAvailability(outcome(err))
		return nil, err
	}
	resolver, hours, err := c.resolverFor(ctx, provider, q)
	if err != nil {
		c.Metrics.ObserveAvailability(outcome(err))
		return nil, err
	}

	slots := []models.TimeSlot{}
	for start := range TimeGrid(hours, c.Granularity) {
		slot := resolver.Slot(start, q.TotalDurationMinutes, q.JobSite)
		c.Metrics.ObserveSlot(string(slot.Reason))
		slots = append(slots, slot)
	}
	c.Metrics.ObserveAvailability("ok")
	c.logger().Debug("computed slots",
		zap.String("providerID", q.ProviderID),
		zap.String("date", q.Date),
		zap.Int("duration", q.TotalDurationMinutes),
		zap.Int("slots", len(slots)))
	return slots, nil
}

// ClassifyStart classifies a single start, which need not lie on the grid.
func (c *DefaultAvailabilityCalculator) ClassifyStart(ctx context.Context, q SlotQuery, start int) (models.TimeSlot, error) {
	provider, err := c.loadProvider(ctx, q)
	if err != nil {
		return models.TimeSlot{}, err
	}
	return c.classifyFor(ctx, provider, q, start)
}

func (c *DefaultAvailabilityCalculator) classifyFor(ctx context.Context, provider *models.Provider, q SlotQuery, start int) (models.TimeSlot, error) {
	if start < 0 || start >= utils.MinutesPerDay {
		return models.TimeSlot{}, invalidInput(CodeInvalidTime, "startTime", "start must fall within the day")
	}
	resolver, _, err := c.resolverFor(ctx, provider, q)
	if err != nil {
		return models.TimeSlot{}, err
	}
	return resolver.Slot(start, q.TotalDurationMinutes, q.JobSite), nil
}

func (c *DefaultAvailabilityCalculator) loadProvider(ctx context.Context, q SlotQuery) (*models.Provider, error) {
	if q.TotalDurationMinutes <= 0 {
		return nil, invalidInput(CodeInvalidDuration, "duration", "duration must be a positive number of minutes")
	}
	if _, err := utils.ParseDate(q.Date); err != nil {
		return nil, invalidInput(CodeInvalidDate, "date", fmt.Sprintf("date %q must be YYYY-MM-DD", q.Date))
	}
	return loadProvider(ctx, c.Providers, q.ProviderID)
}

func (c *DefaultAvailabilityCalculator) resolverFor(ctx context.Context, provider *models.Provider, q SlotQuery) (*ConflictResolver, models.DayHours, error) {
	day, err := utils.ParseDate(q.Date)
	if err != nil {
		return nil, models.DayHours{}, invalidInput(CodeInvalidDate, "date", fmt.Sprintf("date %q must be YYYY-MM-DD", q.Date))
	}
	appts, err := c.Appointments.ListByProviderDate(ctx, provider.ID, q.Date)
	if err != nil {
		return nil, models.DayHours{}, fmt.Errorf("failed to load appointments: %w", err)
	}
	hours := provider.Schedule.HoursFor(day.Weekday())
	return NewConflictResolver(provider.Schedule, hours, appts, q.ExcludeAppointmentIDs...), hours, nil
}

// loadProvider turns a missing provider into a typed error instead of an empty day.
func loadProvider(ctx context.Context, repo providerRepo.ProviderRepository, id string) (*models.Provider, error) {
	if id == "" {
		return nil, invalidInput(CodeUnknownProvider, "providerId", "provider id is required")
	}
	provider, err := repo.GetByID(ctx, id)
	if errors.Is(err, providerRepo.ErrProviderNotFound) {
		return nil, invalidInput(CodeUnknownProvider, "providerId", fmt.Sprintf("no such provider %q", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load provider %s: %w", id, err)
	}
	return provider, nil
}

// SlotDTOs renders slots in their wire form.
func SlotDTOs(slots []models.TimeSlot) []models.SlotDTO {
	out := make([]models.SlotDTO, 0, len(slots))
	for _, s := range slots {
		dto := models.SlotDTO{
			StartTime: utils.FormatClock(s.Start),
			EndTime:   utils.FormatClock(s.End),
			Available: s.Available,
		}
		if !s.Available {
			reason := s.Reason
			dto.Reason = &reason
		}
		out = append(out, dto)
	}
	return out
}

// outcome is the metrics label for an operation result.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}
