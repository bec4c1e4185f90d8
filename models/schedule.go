package models

import "time"

// DayHours is the working window for one weekday, in minutes from midnight.
type DayHours struct {
	Weekday time.Weekday `bson:"weekday" json:"weekday"`
	Open    int          `bson:"open" json:"open"`
	Close   int          `bson:"close" json:"close"`
}

// Closed reports whether the provider does not work that day.
func (d DayHours) Closed() bool {
	return d.Close <= d.Open
}

// Window is a [Start, End) interval in minutes from midnight.
type Window struct {
	Start int `bson:"start" json:"start"`
	End   int `bson:"end" json:"end"`
}

// Overlaps reports whether [start, end) intersects the window.
func (w Window) Overlaps(start, end int) bool {
	return start < w.End && w.Start < end
}

// ProviderSchedule holds the rules that shape a provider's calendar.
type ProviderSchedule struct {
	WorkingHours        []DayHours `bson:"workingHours" json:"workingHours"`
	Lunch               *Window    `bson:"lunch,omitempty" json:"lunch,omitempty"`
	TravelBufferMinutes int        `bson:"travelBufferMinutes" json:"travelBufferMinutes"`
	Timezone            string     `bson:"timezone,omitempty" json:"timezone,omitempty"` // IANA name
}

// HoursFor returns the working window for a weekday. A missing weekday is closed.
func (s ProviderSchedule) HoursFor(day time.Weekday) DayHours {
	for _, h := range s.WorkingHours {
		if h.Weekday == day {
			return h
		}
	}
	return DayHours{Weekday: day}
}

// Location resolves the schedule's timezone, defaulting to UTC.
func (s ProviderSchedule) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Provider is a mobile detailer as the scheduling engine sees it.
type Provider struct {
	ID              string               `bson:"id" json:"id"`
	Name            string               `bson:"name" json:"name"`
	Base            JobSite              `bson:"base" json:"base"`
	Schedule        ProviderSchedule     `bson:"schedule" json:"schedule"`
	Catalog         []ServiceCatalogItem `bson:"catalog" json:"catalog"`
	Currency        string               `bson:"currency" json:"currency"` // e.g. "usd"
	StripeAccountID string               `bson:"stripeAccountId,omitempty" json:"stripeAccountId,omitempty"`
	CreatedAt       time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// CatalogItem looks up a service by id.
func (p Provider) CatalogItem(id string) (ServiceCatalogItem, bool) {
	for _, item := range p.Catalog {
		if item.ID == id {
			return item, true
		}
	}
	return ServiceCatalogItem{}, false
}
