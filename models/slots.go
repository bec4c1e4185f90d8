package models

// SlotReason explains why a slot cannot be booked.
type SlotReason string

const (
	SlotReasonLunch  SlotReason = "lunch"
	SlotReasonBooked SlotReason = "booked"
	SlotReasonTravel SlotReason = "travel"
	SlotReasonClosed SlotReason = "closed"
)

// TimeSlot is one candidate start on a provider's day.
type TimeSlot struct {
	Start     int        `json:"start"` // minutes from midnight
	End       int        `json:"end"`   // minutes from midnight
	Available bool       `json:"available"`
	Reason    SlotReason `json:"reason,omitempty"` // set iff !Available
}

// SlotDTO is the wire form of a TimeSlot.
type SlotDTO struct {
	StartTime string      `json:"startTime"`
	EndTime   string      `json:"endTime"`
	Available bool        `json:"available"`
	Reason    *SlotReason `json:"reason"`
}

// AvailabilityResponse is returned by the availability query.
type AvailabilityResponse struct {
	ProviderID string    `json:"providerId"`
	Date       string    `json:"date"`
	Duration   int       `json:"duration"`
	Slots      []SlotDTO `json:"slots"`
}
