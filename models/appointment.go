package models

import "time"

// AppointmentStatus is the lifecycle state of one appointment.
type AppointmentStatus string

const (
	StatusScheduled   AppointmentStatus = "scheduled"
	StatusRescheduled AppointmentStatus = "rescheduled"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusCompleted   AppointmentStatus = "completed"
)

// Terminal reports whether no further transition is allowed.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusRescheduled, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// RescheduleReason is audit metadata attached to a reschedule.
type RescheduleReason string

const (
	ReasonWeather          RescheduleReason = "weather"
	ReasonEmergency        RescheduleReason = "emergency"
	ReasonScheduleConflict RescheduleReason = "schedule_conflict"
	ReasonCustomerRequest  RescheduleReason = "customer_request"
	ReasonOther            RescheduleReason = "other"
)

// NormalizeRescheduleReason maps unknown codes to "other"; empty stays empty.
func NormalizeRescheduleReason(code string) RescheduleReason {
	switch r := RescheduleReason(code); r {
	case "":
		return ""
	case ReasonWeather, ReasonEmergency, ReasonScheduleConflict, ReasonCustomerRequest, ReasonOther:
		return r
	}
	return ReasonOther
}

// RescheduleRecord captures one accepted reschedule for auditing.
type RescheduleRecord struct {
	FromDate string           `bson:"fromDate" json:"fromDate"`
	FromTime int              `bson:"fromTime" json:"fromTime"`
	ToDate   string           `bson:"toDate" json:"toDate"`
	ToTime   int              `bson:"toTime" json:"toTime"`
	Reason   RescheduleReason `bson:"reason,omitempty" json:"reason,omitempty"`
	At       time.Time        `bson:"at" json:"at"`
}

// Appointment is one serviced vehicle at a scheduled date and time.
type Appointment struct {
	ID         string `bson:"id" json:"id"`
	ProviderID string `bson:"providerId" json:"providerId"`
	CustomerID string `bson:"customerId" json:"customerId"`
	BookingID  string `bson:"bookingId" json:"bookingId"` // shared by all cart items of one booking

	ServiceID  string   `bson:"serviceId" json:"serviceId"`
	BodyType   BodyType `bson:"bodyType" json:"bodyType"`
	LuxuryCare bool     `bson:"luxuryCare" json:"luxuryCare"`
	Price      float64  `bson:"price" json:"price"`
	Currency   string   `bson:"currency,omitempty" json:"currency,omitempty"`

	ScheduledDate string  `bson:"scheduledDate" json:"scheduledDate"` // "2006-01-02"
	ScheduledTime int     `bson:"scheduledTime" json:"scheduledTime"` // minutes from midnight
	Duration      int     `bson:"duration" json:"duration"`           // minutes
	Site          JobSite `bson:"site" json:"site"`

	Status            AppointmentStatus  `bson:"status" json:"status"`
	RescheduleCount   int                `bson:"rescheduleCount" json:"rescheduleCount"`
	RescheduleHistory []RescheduleRecord `bson:"rescheduleHistory,omitempty" json:"rescheduleHistory,omitempty"`
	IsArrived         bool               `bson:"isArrived" json:"isArrived"`
	IsMissed          bool               `bson:"isMissed" json:"isMissed"`

	Version   int       `bson:"version" json:"version"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// End returns the minute the appointment finishes.
func (a Appointment) End() int {
	return a.ScheduledTime + a.Duration
}

// Active reports whether the appointment still holds provider time.
func (a Appointment) Active() bool {
	return a.Status != StatusCancelled
}

// Phase is the single label the provider app shows for the appointment.
func (a Appointment) Phase() string {
	switch {
	case a.Status.Terminal():
		return string(a.Status)
	case a.IsArrived:
		return "arrived"
	case a.IsMissed:
		return "missed"
	}
	return string(a.Status)
}
