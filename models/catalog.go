package models

// BodyType is the vehicle size category driving price and duration.
type BodyType string

const (
	BodyCar   BodyType = "car"
	BodyVan   BodyType = "van"
	BodyTruck BodyType = "truck"
	BodySUV   BodyType = "suv"
)

// BodyTypes lists every supported body type.
var BodyTypes = []BodyType{BodyCar, BodyVan, BodyTruck, BodySUV}

// Valid reports whether b is a supported body type.
func (b BodyType) Valid() bool {
	switch b {
	case BodyCar, BodyVan, BodyTruck, BodySUV:
		return true
	}
	return false
}

// Multiplier bounds for both price and duration tables.
const (
	MinBodyMultiplier = 0.5
	MaxBodyMultiplier = 3.0
)

// DefaultPriceMultipliers apply when a catalog item omits a body type.
var DefaultPriceMultipliers = map[BodyType]float64{
	BodyCar:   1.0,
	BodySUV:   1.25,
	BodyVan:   1.35,
	BodyTruck: 1.5,
}

// DefaultDurationMultipliers apply when a catalog item omits a body type.
var DefaultDurationMultipliers = map[BodyType]float64{
	BodyCar:   1.0,
	BodySUV:   1.2,
	BodyVan:   1.3,
	BodyTruck: 1.4,
}

// ServiceCatalogItem is one detailing service a provider sells.
type ServiceCatalogItem struct {
	ID                  string               `bson:"id" json:"id"`
	Name                string               `bson:"name" json:"name"`
	BasePrice           float64              `bson:"basePrice" json:"basePrice"`
	BaseDuration        int                  `bson:"baseDuration" json:"baseDuration"` // minutes
	PriceMultipliers    map[BodyType]float64 `bson:"priceMultipliers,omitempty" json:"priceMultipliers,omitempty"`
	DurationMultipliers map[BodyType]float64 `bson:"durationMultipliers,omitempty" json:"durationMultipliers,omitempty"`
	LuxurySurchargePct  float64              `bson:"luxurySurchargePct" json:"luxurySurchargePct"` // 0-100
	LuxuryExtraTimePct  float64              `bson:"luxuryExtraTimePct" json:"luxuryExtraTimePct"` // 0-100
}

// PriceMultiplier returns the price multiplier for b, falling back to the defaults.
func (s ServiceCatalogItem) PriceMultiplier(b BodyType) (float64, bool) {
	if m, ok := s.PriceMultipliers[b]; ok {
		return m, true
	}
	m, ok := DefaultPriceMultipliers[b]
	return m, ok
}

// DurationMultiplier returns the time multiplier for b, falling back to the defaults.
func (s ServiceCatalogItem) DurationMultiplier(b BodyType) (float64, bool) {
	if m, ok := s.DurationMultipliers[b]; ok {
		return m, true
	}
	m, ok := DefaultDurationMultipliers[b]
	return m, ok
}
