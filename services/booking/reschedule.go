package booking

import (
	"fmt"
	"time"

	"shinely/models"
)

// DefaultMaxReschedules bounds how many times one appointment may move.
const DefaultMaxReschedules = 3

// ReschedulePolicy holds the guard and the mutation of an accepted reschedule.
// It never touches storage; the service applies it under the day locks.
type ReschedulePolicy struct {
	MaxReschedules int
}

func (p ReschedulePolicy) max() int {
	if p.MaxReschedules <= 0 {
		return DefaultMaxReschedules
	}
	return p.MaxReschedules
}

// Check reports whether appt may be rescheduled at all.
func (p ReschedulePolicy) Check(appt models.Appointment) error {
	if _, err := NextStatus(appt.Status, ActionReschedule); err != nil {
		return err
	}
	if limit := p.max(); appt.RescheduleCount >= limit {
		return &SchedulingError{
			Kind:    KindPolicyViolation,
			Code:    CodeRescheduleLimit,
			Field:   "rescheduleCount",
			Message: fmt.Sprintf("appointment has already been rescheduled %d times", appt.RescheduleCount),
			Limit:   limit,
		}
	}
	return nil
}

// Apply moves appt to the new date and time and records the change.
// The caller must have verified availability.
func (p ReschedulePolicy) Apply(appt *models.Appointment, newDate string, newTime int, reason string, at time.Time) error {
	if err := p.Check(*appt); err != nil {
		return err
	}
	next, err := NextStatus(appt.Status, ActionReschedule)
	if err != nil {
		return err
	}
	appt.RescheduleHistory = append(appt.RescheduleHistory, models.RescheduleRecord{
		FromDate: appt.ScheduledDate,
		FromTime: appt.ScheduledTime,
		ToDate:   newDate,
		ToTime:   newTime,
		Reason:   models.NormalizeRescheduleReason(reason),
		At:       at,
	})
	appt.ScheduledDate = newDate
	appt.ScheduledTime = newTime
	appt.RescheduleCount++
	appt.Status = next
	appt.IsArrived = false
	appt.IsMissed = false
	return nil
}
