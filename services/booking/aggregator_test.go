package booking

import (
	"testing"

	"shinely/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateMultiVehiclePricing(t *testing.T) {
	provider := testProvider()

	suv := models.BookingCartItem{ServiceID: "full-detail", BodyType: models.BodySUV, LuxuryCare: true}
	quote, err := Aggregate(provider, []models.BookingCartItem{suv})
	require.NoError(t, err)
	assert.Equal(t, 71.88, quote.TotalPrice)

	car := models.BookingCartItem{ServiceID: "full-detail", BodyType: models.BodyCar}
	quote, err = Aggregate(provider, []models.BookingCartItem{car, suv})
	require.NoError(t, err)
	assert.Equal(t, 121.88, quote.TotalPrice)
	assert.Equal(t, int64(12188), quote.TotalMinor)
	assert.Equal(t, int64(7188), quote.Lines[1].PriceMinor)
	assert.Equal(t, 50.0, quote.Lines[0].Price)
	assert.Equal(t, 71.88, quote.Lines[1].Price)
	assert.Equal(t, "usd", quote.Currency)

	// 60 min car + ceil(60 * 1.2 * 1.25) = 90 min SUV.
	assert.Equal(t, 60, quote.Lines[0].Duration)
	assert.Equal(t, 90, quote.Lines[1].Duration)
	assert.Equal(t, 150, quote.TotalDuration)
}

func TestAggregateOrderIndependent(t *testing.T) {
	provider := testProvider()
	items := []models.BookingCartItem{
		{ServiceID: "full-detail", BodyType: models.BodySUV, LuxuryCare: true},
		{ServiceID: "quick-wash", BodyType: models.BodyTruck},
		{ServiceID: "full-detail", BodyType: models.BodyVan},
		{ServiceID: "quick-wash", BodyType: models.BodyCar, LuxuryCare: true},
	}
	reversed := []models.BookingCartItem{items[3], items[2], items[1], items[0]}
	rotated := []models.BookingCartItem{items[2], items[0], items[3], items[1]}

	base, err := Aggregate(provider, items)
	require.NoError(t, err)
	for _, perm := range [][]models.BookingCartItem{reversed, rotated} {
		q, err := Aggregate(provider, perm)
		require.NoError(t, err)
		assert.Equal(t, base.TotalPrice, q.TotalPrice)
		assert.Equal(t, base.TotalDuration, q.TotalDuration)
	}
}

func TestAggregateCatalogOverrides(t *testing.T) {
	provider := testProvider()
	quote, err := Aggregate(provider, []models.BookingCartItem{{ServiceID: "quick-wash", BodyType: models.BodyTruck}})
	require.NoError(t, err)
	assert.Equal(t, 40.0, quote.TotalPrice)
	assert.Equal(t, 45, quote.TotalDuration)
}

func TestAggregateRejects(t *testing.T) {
	provider := testProvider()
	tests := []struct {
		name  string
		items []models.BookingCartItem
		code  string
	}{
		{"empty cart", nil, CodeEmptyCart},
		{"unknown service", []models.BookingCartItem{{ServiceID: "ceramic", BodyType: models.BodyCar}}, CodeUnknownService},
		{"unknown body type", []models.BookingCartItem{{ServiceID: "full-detail", BodyType: "bus"}}, CodeUnknownBodyType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Aggregate(provider, tt.items)
			require.ErrorIs(t, err, ErrInvalidInput)
			var se *SchedulingError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.code, se.Code)
		})
	}
}

func TestAggregateRejectsBadMultiplier(t *testing.T) {
	provider := testProvider()
	provider.Catalog[0].PriceMultipliers = map[models.BodyType]float64{models.BodyVan: 4}
	_, err := Aggregate(provider, []models.BookingCartItem{{ServiceID: "full-detail", BodyType: models.BodyVan}})
	assert.ErrorIs(t, err, &SchedulingError{Kind: KindInvalidInput, Code: CodeInvalidCatalog})
}

func TestValidateCatalog(t *testing.T) {
	require.NoError(t, ValidateCatalog(testProvider().Catalog))

	tests := []struct {
		name string
		item models.ServiceCatalogItem
		code string
	}{
		{"missing id", models.ServiceCatalogItem{BaseDuration: 30}, CodeInvalidCatalog},
		{"no duration", models.ServiceCatalogItem{ID: "a"}, CodeInvalidCatalog},
		{"multiplier above bound", models.ServiceCatalogItem{ID: "a", BaseDuration: 30,
			PriceMultipliers: map[models.BodyType]float64{models.BodyVan: 3.5}}, CodeInvalidCatalog},
		{"unknown body type", models.ServiceCatalogItem{ID: "a", BaseDuration: 30,
			DurationMultipliers: map[models.BodyType]float64{"bus": 1}}, CodeUnknownBodyType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCatalog([]models.ServiceCatalogItem{tt.item})
			assert.ErrorIs(t, err, &SchedulingError{Kind: KindInvalidInput, Code: tt.code})
		})
	}

	dup := models.ServiceCatalogItem{ID: "a", BaseDuration: 30}
	assert.ErrorIs(t, ValidateCatalog([]models.ServiceCatalogItem{dup, dup}), ErrInvalidInput)
}
