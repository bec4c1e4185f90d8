package booking

import (
	"slices"

	"shinely/models"
	"shinely/utils"
)

// ReasonPriority is the order in which unavailability reasons are checked.
// The first matching reason is the one reported for a slot.
var ReasonPriority = []models.SlotReason{
	models.SlotReasonLunch,
	models.SlotReasonBooked,
	models.SlotReasonTravel,
	models.SlotReasonClosed,
}

// sameSiteRadiusMeters is how close two coordinates must be to count as one site.
const sameSiteRadiusMeters = 30.0

// OccupiedInterval is provider time already taken by one or more appointments.
type OccupiedInterval struct {
	Start          int
	End            int
	Site           models.JobSite
	AppointmentIDs []string
}

// OccupiedIntervals turns a day's appointments into blocked intervals.
// Cancelled and excluded appointments are skipped. Appointments of one booking
// that share a start are serviced back to back, so they merge into a single
// block of their summed durations.
func OccupiedIntervals(appts []models.Appointment, exclude ...string) []OccupiedInterval {
	type groupKey struct {
		bookingID string
		date      string
		start     int
	}
	groups := make(map[groupKey]int)
	var out []OccupiedInterval
	for _, a := range appts {
		if !a.Active() || slices.Contains(exclude, a.ID) || a.Duration <= 0 {
			continue
		}
		if a.BookingID != "" {
			key := groupKey{a.BookingID, a.ScheduledDate, a.ScheduledTime}
			if idx, ok := groups[key]; ok {
				out[idx].End += a.Duration
				out[idx].AppointmentIDs = append(out[idx].AppointmentIDs, a.ID)
				continue
			}
			groups[key] = len(out)
		}
		out = append(out, OccupiedInterval{
			Start:          a.ScheduledTime,
			End:            a.End(),
			Site:           a.Site,
			AppointmentIDs: []string{a.ID},
		})
	}
	slices.SortFunc(out, func(a, b OccupiedInterval) int { return a.Start - b.Start })
	return out
}

// ConflictResolver classifies candidate intervals on one provider day.
type ConflictResolver struct {
	Hours        models.DayHours
	Lunch        *models.Window
	TravelBuffer int
	Occupied     []OccupiedInterval
}

// NewConflictResolver builds a resolver for the provider's day, ignoring the
// appointments listed in exclude.
func NewConflictResolver(schedule models.ProviderSchedule, hours models.DayHours, appts []models.Appointment, exclude ...string) *ConflictResolver {
	return &ConflictResolver{
		Hours:        hours,
		Lunch:        schedule.Lunch,
		TravelBuffer: schedule.TravelBufferMinutes,
		Occupied:     OccupiedIntervals(appts, exclude...),
	}
}

// Classify reports whether [start, start+duration) can be booked at site.
// When it cannot, the reason is the first match in ReasonPriority. Every
// start on a closed day is closed, whatever else overlaps it.
func (r *ConflictResolver) Classify(start, duration int, site *models.JobSite) (models.SlotReason, bool) {
	if r.Hours.Closed() {
		return models.SlotReasonClosed, false
	}
	end := start + duration
	for _, reason := range ReasonPriority {
		if r.matches(reason, start, end, site) {
			return reason, false
		}
	}
	return "", true
}

// Slot classifies a candidate and returns it as a TimeSlot.
func (r *ConflictResolver) Slot(start, duration int, site *models.JobSite) models.TimeSlot {
	reason, ok := r.Classify(start, duration, site)
	return models.TimeSlot{Start: start, End: start + duration, Available: ok, Reason: reason}
}

func (r *ConflictResolver) matches(reason models.SlotReason, start, end int, site *models.JobSite) bool {
	switch reason {
	case models.SlotReasonLunch:
		return r.Lunch != nil && r.Lunch.End > r.Lunch.Start && r.Lunch.Overlaps(start, end)
	case models.SlotReasonBooked:
		for _, o := range r.Occupied {
			if start < o.End && o.Start < end {
				return true
			}
		}
		return false
	case models.SlotReasonTravel:
		return r.travelConflict(start, end, site)
	case models.SlotReasonClosed:
		return r.Hours.Closed() || start < r.Hours.Open || end > r.Hours.Close
	}
	return false
}

// travelConflict is checked on both sides: a job ending shortly before start,
// and a job beginning shortly after end.
func (r *ConflictResolver) travelConflict(start, end int, site *models.JobSite) bool {
	if r.TravelBuffer <= 0 {
		return false
	}
	for _, o := range r.Occupied {
		if SameSite(site, o.Site) {
			continue
		}
		if o.End <= start && start-o.End < r.TravelBuffer {
			return true
		}
		if end <= o.Start && o.Start-end < r.TravelBuffer {
			return true
		}
	}
	return false
}

// SameSite reports whether a candidate site is the same place as an existing
// job. An unknown candidate site is never the same place.
func SameSite(candidate *models.JobSite, existing models.JobSite) bool {
	if candidate == nil || !candidate.Known() {
		return false
	}
	if a := candidate.NormalizedAddress(); a != "" && a == existing.NormalizedAddress() {
		return true
	}
	if candidate.Geo.Known() && existing.Geo.Known() {
		return utils.DistanceMeters(candidate.Geo, existing.Geo) <= sameSiteRadiusMeters
	}
	return false
}
