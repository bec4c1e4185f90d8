package payment

import (
	"context"
	"fmt"
	"strings"

	"shinely/models"
	"shinely/services/booking"
	"shinely/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

const CodePaymentsUnavailable = "payments_unavailable"

// PaymentService collects card payments for quoted carts. Settlement and
// payouts happen outside this service.
type PaymentService interface {
	CreateIntent(ctx context.Context, req models.PaymentIntentRequest) (*models.PaymentIntent, error)
}

// Quoter prices a cart.
type Quoter interface {
	Quote(ctx context.Context, providerID string, items []models.BookingCartItem) (*models.Quote, error)
}

// IntentCreator is the Stripe call the service makes.
type IntentCreator interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeIntents creates intents with the global stripe.Key.
type StripeIntents struct{}

func (StripeIntents) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	return paymentintent.New(params)
}

type DefaultPaymentService struct {
	Quotes  Quoter
	Intents IntentCreator
	Logger  *zap.Logger
}

func (s *DefaultPaymentService) CreateIntent(ctx context.Context, req models.PaymentIntentRequest) (*models.PaymentIntent, error) {
	logger := s.Logger
	if logger == nil {
		logger = utils.GetLogger()
	}
	quote, err := s.Quotes.Quote(ctx, req.ProviderID, req.Items)
	if err != nil {
		return nil, err
	}
	if s.Intents == nil {
		return nil, booking.NewSchedulingError(booking.KindCollaboratorUnavailable, CodePaymentsUnavailable, "", "card payments are not configured")
	}

	currency := strings.ToLower(quote.Currency)
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	amount := quote.TotalMinor
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("providerId", req.ProviderID)
	params.AddMetadata("customerId", req.CustomerID)
	params.AddMetadata("vehicles", fmt.Sprintf("%d", len(quote.Lines)))

	pi, err := s.Intents.New(params)
	if err != nil {
		logger.Error("failed to create payment intent",
			zap.String("providerID", req.ProviderID),
			zap.Int64("amount", amount),
			zap.Error(err))
		return nil, &booking.SchedulingError{
			Kind:    booking.KindCollaboratorUnavailable,
			Code:    CodePaymentsUnavailable,
			Message: "payment provider rejected the request",
			Err:     err,
		}
	}

	logger.Info("payment intent created",
		zap.String("paymentIntentID", pi.ID),
		zap.String("providerID", req.ProviderID),
		zap.Int64("amount", amount))
	return &models.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       quote.TotalPrice,
		Currency:     currency,
		Status:       string(pi.Status),
	}, nil
}
