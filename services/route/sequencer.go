package route

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	appointmentRepo "shinely/database/repository/appointment"
	providerRepo "shinely/database/repository/provider"
	"shinely/metrics"
	"shinely/models"
	"shinely/services/booking"
	"shinely/utils"

	"go.uber.org/zap"
)

const (
	defaultDirectionsTimeout = 4 * time.Second
	defaultArrivalRadius     = 150.0
)

// PlanRequest asks for a provider's route from a live location.
type PlanRequest struct {
	ProviderID string
	Date       string // defaults to today in the provider's timezone
	Current    models.GeoPoint
}

// Sequencer orders a provider's remaining jobs and annotates them with drive times.
type Sequencer struct {
	Providers      providerRepo.ProviderRepository
	Appointments   appointmentRepo.AppointmentRepository
	Directions     DirectionsClient
	Timeout        time.Duration
	ArrivalRadiusM float64
	Metrics        *metrics.EngineMetrics
	Logger         *zap.Logger
	Now            func() time.Time
}

func (s *Sequencer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Sequencer) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return utils.GetLogger()
}

// Plan builds the route. Directions failures never fail the plan; the stops
// come back in order without drive times and ETAAvailable is false.
func (s *Sequencer) Plan(ctx context.Context, req PlanRequest) (*models.RoutePlan, error) {
	if !req.Current.Valid() {
		return nil, booking.NewSchedulingError(booking.KindInvalidInput, booking.CodeInvalidLocation, "location", "current location is not a valid coordinate")
	}
	provider, err := s.Providers.GetByID(ctx, req.ProviderID)
	if errors.Is(err, providerRepo.ErrProviderNotFound) {
		return nil, booking.NewSchedulingError(booking.KindInvalidInput, booking.CodeUnknownProvider, "providerId", fmt.Sprintf("no such provider %q", req.ProviderID))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load provider %s: %w", req.ProviderID, err)
	}

	local := s.now().In(provider.Schedule.Location())
	today := local.Format(utils.DateLayout)
	date := req.Date
	if date == "" {
		date = today
	}
	if _, err := utils.ParseDate(date); err != nil {
		return nil, booking.NewSchedulingError(booking.KindInvalidInput, booking.CodeInvalidDate, "date", fmt.Sprintf("date %q must be YYYY-MM-DD", date))
	}

	appts, err := s.Appointments.ListByProviderDate(ctx, provider.ID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	remaining := RemainingJobs(appts)

	plan := &models.RoutePlan{ProviderID: provider.ID, Date: date, Stops: make([]models.RouteStop, 0, len(remaining))}
	prev := req.Current
	for _, appt := range remaining {
		plan.Stops = append(plan.Stops, models.RouteStop{
			Appointment: appt,
			Leg:         models.RouteLeg{From: prev, To: appt.Site.Geo, AppointmentID: appt.ID},
		})
		prev = appt.Site.Geo
	}

	if next, ok := nextJob(remaining); ok {
		plan.NextJobID = next.ID
		plan.NearNextJob = s.near(req.Current, next)
	}

	legs, ok := s.legDurations(ctx, req.Current, remaining)
	if !ok {
		return plan, nil
	}
	plan.ETAAvailable = true

	cursor := utils.MinutesOf(local)
	if date != today && len(remaining) > 0 {
		cursor = remaining[0].ScheduledTime - ceilMinutes(legs[0])
	}
	for i := range plan.Stops {
		drive := ceilMinutes(legs[i])
		plan.Stops[i].Leg.DriveMinutes = &drive
		arrival := cursor + drive
		plan.Stops[i].EstimatedArrival = utils.FormatClock(arrival)
		appt := plan.Stops[i].Appointment
		cursor = max(arrival, appt.ScheduledTime) + appt.Duration
	}
	return plan, nil
}

// RemainingJobs drops cancelled and completed appointments and orders the rest
// by scheduled time. The manual order is kept; nothing is re-optimized.
func RemainingJobs(appts []models.Appointment) []models.Appointment {
	out := make([]models.Appointment, 0, len(appts))
	for _, a := range appts {
		if a.Status.Terminal() {
			continue
		}
		out = append(out, a)
	}
	slices.SortStableFunc(out, func(a, b models.Appointment) int {
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
	return out
}

// nextJob is the first remaining job the provider has not arrived at or missed.
func nextJob(remaining []models.Appointment) (models.Appointment, bool) {
	for _, a := range remaining {
		if !a.IsArrived && !a.IsMissed {
			return a, true
		}
	}
	return models.Appointment{}, false
}

func (s *Sequencer) near(current models.GeoPoint, job models.Appointment) bool {
	if !job.Site.Geo.Known() {
		return false
	}
	radius := s.ArrivalRadiusM
	if radius <= 0 {
		radius = defaultArrivalRadius
	}
	return utils.DistanceMeters(current, job.Site.Geo) <= radius
}

func (s *Sequencer) legDurations(ctx context.Context, current models.GeoPoint, remaining []models.Appointment) ([]time.Duration, bool) {
	if len(remaining) == 0 || s.Directions == nil {
		return nil, false
	}
	waypoints := make([]models.GeoPoint, 0, len(remaining)+1)
	waypoints = append(waypoints, current)
	for _, a := range remaining {
		if !a.Site.Geo.Known() {
			s.logger().Warn("route job has no coordinates; skipping drive times",
				zap.String("appointmentID", a.ID))
			return nil, false
		}
		waypoints = append(waypoints, a.Site.Geo)
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultDirectionsTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	legs, err := s.Directions.LegDurations(ctx, waypoints)
	if err == nil && len(legs) != len(remaining) {
		err = fmt.Errorf("expected %d legs, got %d", len(remaining), len(legs))
	}
	s.Metrics.ObserveDirections(directionsOutcome(err), time.Since(started).Seconds())
	if err != nil {
		s.logger().Warn("directions unavailable; returning route without drive times",
			zap.Int("stops", len(remaining)), zap.Error(err))
		return nil, false
	}
	return legs, true
}

func directionsOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	}
	return "error"
}

func ceilMinutes(d time.Duration) int {
	m := int(d / time.Minute)
	if d%time.Minute != 0 {
		m++
	}
	return m
}
