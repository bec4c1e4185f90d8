package models

import "strings"

// GeoPoint represents a GeoJSON Point.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`               // Always "Point"
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [longitude, latitude]
}

// NewGeoPoint builds a point from latitude and longitude.
func NewGeoPoint(lat, lng float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// Valid reports whether the point carries a usable coordinate pair.
func (p GeoPoint) Valid() bool {
	if len(p.Coordinates) != 2 {
		return false
	}
	lng, lat := p.Coordinates[0], p.Coordinates[1]
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Known reports whether the point is valid and not the zero coordinate.
func (p GeoPoint) Known() bool {
	return p.Valid() && (p.Coordinates[0] != 0 || p.Coordinates[1] != 0)
}

func (p GeoPoint) Lat() float64 {
	if len(p.Coordinates) != 2 {
		return 0
	}
	return p.Coordinates[1]
}

func (p GeoPoint) Lng() float64 {
	if len(p.Coordinates) != 2 {
		return 0
	}
	return p.Coordinates[0]
}

// JobSite is where a vehicle is serviced.
type JobSite struct {
	Address string   `bson:"address,omitempty" json:"address,omitempty"`
	Geo     GeoPoint `bson:"geo" json:"geo"`
}

// NormalizedAddress is the comparison key for street addresses.
func (s JobSite) NormalizedAddress() string {
	return strings.Join(strings.Fields(strings.ToLower(s.Address)), " ")
}

// Known reports whether the site carries an address or a usable coordinate.
func (s JobSite) Known() bool {
	return s.NormalizedAddress() != "" || s.Geo.Known()
}

// LatLng is the wire form of a coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point converts the wire coordinate into a GeoPoint.
func (l LatLng) Point() GeoPoint {
	return NewGeoPoint(l.Lat, l.Lng)
}

// ReminderPayload is the task body of an appointment reminder. RescheduleCount
// identifies which placement of the appointment the reminder was queued for.
type ReminderPayload struct {
	AppointmentID   string `json:"appointmentId"`
	ProviderID      string `json:"providerId"`
	CustomerID      string `json:"customerId"`
	ScheduledDate   string `json:"scheduledDate"`
	ScheduledTime   int    `json:"scheduledTime"`
	RescheduleCount int    `json:"rescheduleCount"`
	Version         int    `json:"version"`
}
