package models

// BookingRequest confirms a cart at one start time.
type BookingRequest struct {
	ProviderID string            `json:"providerId" binding:"required"`
	CustomerID string            `json:"customerId" binding:"required"`
	Date       string            `json:"date" binding:"required"`      // "2006-01-02"
	StartTime  string            `json:"startTime" binding:"required"` // "HH:MM"
	Address    string            `json:"address"`
	Location   LatLng            `json:"location"`
	Items      []BookingCartItem `json:"items" binding:"required,min=1"`
}

// Site converts the request location into a JobSite.
func (r BookingRequest) Site() JobSite {
	return JobSite{Address: r.Address, Geo: r.Location.Point()}
}

// BookingConfirmation is returned once a booking is persisted.
type BookingConfirmation struct {
	BookingID    string        `json:"bookingId"`
	Appointments []Appointment `json:"appointments"`
	Quote        Quote         `json:"quote"`
}

// RescheduleRequest moves one appointment.
type RescheduleRequest struct {
	AppointmentID string `json:"appointmentId"`
	NewDate       string `json:"newDate" binding:"required"`
	NewTime       string `json:"newTime" binding:"required"`
	Reason        string `json:"reason,omitempty"`
}
