package models

// BookingCartItem is one vehicle in a booking being composed.
type BookingCartItem struct {
	ServiceID  string   `json:"serviceId" binding:"required"`
	BodyType   BodyType `json:"bodyType" binding:"required"`
	LuxuryCare bool     `json:"luxuryCare"`
}

// QuoteLine is the priced and timed view of one cart item.
type QuoteLine struct {
	Item       BookingCartItem `json:"item"`
	Service    string          `json:"service"`
	Price      float64         `json:"price"`
	PriceMinor int64           `json:"priceMinor"` // exact price in cents
	Duration   int             `json:"duration"`
}

// Quote is the aggregate of a cart.
type Quote struct {
	Lines         []QuoteLine `json:"lines"`
	TotalPrice    float64     `json:"totalPrice"`
	TotalMinor    int64       `json:"totalMinor"` // exact total in cents; charge this
	TotalDuration int         `json:"totalDuration"`
	Currency      string      `json:"currency,omitempty"`
}
