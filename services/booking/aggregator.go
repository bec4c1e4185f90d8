package booking

import (
	"fmt"

	"shinely/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PriceItem computes the price of one cart item, rounded to the cent.
func PriceItem(svc models.ServiceCatalogItem, body models.BodyType, luxury bool) (decimal.Decimal, error) {
	mult, ok := svc.PriceMultiplier(body)
	if !ok {
		return decimal.Zero, invalidInput(CodeUnknownBodyType, "bodyType", fmt.Sprintf("unsupported body type %q", body))
	}
	if err := checkMultiplier(svc, mult); err != nil {
		return decimal.Zero, err
	}
	price := decimal.NewFromFloat(svc.BasePrice).Mul(decimal.NewFromFloat(mult))
	if luxury {
		price = price.Mul(decimal.NewFromInt(1).Add(decimal.NewFromFloat(svc.LuxurySurchargePct).Div(hundred)))
	}
	return price.Round(2), nil
}

// DurationItem computes the service minutes of one cart item, rounded up.
func DurationItem(svc models.ServiceCatalogItem, body models.BodyType, luxury bool) (int, error) {
	mult, ok := svc.DurationMultiplier(body)
	if !ok {
		return 0, invalidInput(CodeUnknownBodyType, "bodyType", fmt.Sprintf("unsupported body type %q", body))
	}
	if err := checkMultiplier(svc, mult); err != nil {
		return 0, err
	}
	minutes := decimal.NewFromInt(int64(svc.BaseDuration)).Mul(decimal.NewFromFloat(mult))
	if luxury {
		minutes = minutes.Mul(decimal.NewFromInt(1).Add(decimal.NewFromFloat(svc.LuxuryExtraTimePct).Div(hundred)))
	}
	return int(minutes.Ceil().IntPart()), nil
}

func checkMultiplier(svc models.ServiceCatalogItem, mult float64) error {
	if mult < models.MinBodyMultiplier || mult > models.MaxBodyMultiplier {
		return invalidInput(CodeInvalidCatalog, "catalog", fmt.Sprintf("service %s has multiplier %.2f outside [%.1f, %.1f]",
			svc.ID, mult, models.MinBodyMultiplier, models.MaxBodyMultiplier))
	}
	return nil
}

func validateCatalogItem(svc models.ServiceCatalogItem) error {
	switch {
	case svc.BasePrice < 0:
		return invalidInput(CodeInvalidCatalog, "catalog", fmt.Sprintf("service %s has a negative base price", svc.ID))
	case svc.BaseDuration <= 0:
		return invalidInput(CodeInvalidCatalog, "catalog", fmt.Sprintf("service %s has no base duration", svc.ID))
	case svc.LuxurySurchargePct < 0 || svc.LuxurySurchargePct > 100,
		svc.LuxuryExtraTimePct < 0 || svc.LuxuryExtraTimePct > 100:
		return invalidInput(CodeInvalidCatalog, "catalog", fmt.Sprintf("service %s has a luxury percentage outside 0-100", svc.ID))
	}
	return nil
}

// Aggregate prices and times every cart item against the provider's catalogue.
// Totals are plain sums, so the result does not depend on item order.
func Aggregate(provider models.Provider, items []models.BookingCartItem) (*models.Quote, error) {
	if len(items) == 0 {
		return nil, invalidInput(CodeEmptyCart, "items", "at least one vehicle is required")
	}
	quote := &models.Quote{Currency: provider.Currency, Lines: make([]models.QuoteLine, 0, len(items))}
	total := decimal.Zero
	for i, item := range items {
		svc, ok := provider.CatalogItem(item.ServiceID)
		if !ok {
			return nil, invalidInput(CodeUnknownService, fmt.Sprintf("items[%d].serviceId", i),
				fmt.Sprintf("provider does not offer service %q", item.ServiceID))
		}
		if !item.BodyType.Valid() {
			return nil, invalidInput(CodeUnknownBodyType, fmt.Sprintf("items[%d].bodyType", i),
				fmt.Sprintf("unsupported body type %q", item.BodyType))
		}
		if err := validateCatalogItem(svc); err != nil {
			return nil, err
		}
		price, err := PriceItem(svc, item.BodyType, item.LuxuryCare)
		if err != nil {
			return nil, err
		}
		minutes, err := DurationItem(svc, item.BodyType, item.LuxuryCare)
		if err != nil {
			return nil, err
		}
		total = total.Add(price)
		quote.TotalDuration += minutes
		quote.Lines = append(quote.Lines, models.QuoteLine{
			Item:       item,
			Service:    svc.Name,
			Price:      price.InexactFloat64(),
			PriceMinor: MinorUnits(price),
			Duration:   minutes,
		})
	}
	quote.TotalPrice = total.InexactFloat64()
	quote.TotalMinor = MinorUnits(total)
	return quote, nil
}

// MinorUnits converts a cent-rounded amount into integer cents.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// ValidateCatalog checks a whole catalogue before it is stored: ids are unique
// and every item prices and times each supported body type within bounds.
func ValidateCatalog(items []models.ServiceCatalogItem) error {
	seen := make(map[string]bool, len(items))
	for _, svc := range items {
		if svc.ID == "" {
			return invalidInput(CodeInvalidCatalog, "catalog", "service id is required")
		}
		if seen[svc.ID] {
			return invalidInput(CodeInvalidCatalog, "catalog", fmt.Sprintf("service %s is listed twice", svc.ID))
		}
		seen[svc.ID] = true
		if err := validateCatalogItem(svc); err != nil {
			return err
		}
		for body, mult := range svc.PriceMultipliers {
			if !body.Valid() {
				return invalidInput(CodeUnknownBodyType, "catalog", fmt.Sprintf("service %s prices unsupported body type %q", svc.ID, body))
			}
			if err := checkMultiplier(svc, mult); err != nil {
				return err
			}
		}
		for body, mult := range svc.DurationMultipliers {
			if !body.Valid() {
				return invalidInput(CodeUnknownBodyType, "catalog", fmt.Sprintf("service %s times unsupported body type %q", svc.ID, body))
			}
			if err := checkMultiplier(svc, mult); err != nil {
				return err
			}
		}
	}
	return nil
}
