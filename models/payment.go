package models

// PaymentIntentRequest asks for a card payment intent on a quoted cart.
type PaymentIntentRequest struct {
	ProviderID string            `json:"providerId" binding:"required"`
	CustomerID string            `json:"customerId" binding:"required"`
	Items      []BookingCartItem `json:"items" binding:"required,min=1"`
}

// PaymentIntent is the client-facing handle of a created intent.
type PaymentIntent struct {
	ID           string  `json:"id"`
	ClientSecret string  `json:"clientSecret"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Status       string  `json:"status"`
}
