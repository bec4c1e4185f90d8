package models

// RouteLeg is one drive in the provider's day.
type RouteLeg struct {
	From          GeoPoint `json:"from"`
	To            GeoPoint `json:"to"`
	AppointmentID string   `json:"appointmentId"`
	DriveMinutes  *int     `json:"driveMinutes,omitempty"` // nil when directions were unavailable
}

// RouteStop is one job on the route with its projected arrival.
type RouteStop struct {
	Appointment      Appointment `json:"appointment"`
	Leg              RouteLeg    `json:"leg"`
	EstimatedArrival string      `json:"estimatedArrival,omitempty"` // "HH:MM", only with ETAs
}

// RoutePlan is the ordered day presented to the provider.
type RoutePlan struct {
	ProviderID   string      `json:"providerId"`
	Date         string      `json:"date"`
	Stops        []RouteStop `json:"stops"`
	ETAAvailable bool        `json:"etaAvailable"`
	NearNextJob  bool        `json:"nearNextJob"`
	NextJobID    string      `json:"nextJobId,omitempty"`
}
