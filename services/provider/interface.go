package provider

import (
	"context"

	"shinely/models"
)

// ProviderService manages the provider records the scheduling engine reads:
// working hours, lunch, travel buffer and the service catalogue.
type ProviderService interface {
	RegisterProvider(ctx context.Context, p models.Provider) (*models.Provider, error)
	GetProvider(ctx context.Context, id string) (*models.Provider, error)
	UpdateSchedule(ctx context.Context, id string, schedule models.ProviderSchedule) (*models.Provider, error)
	UpdateCatalog(ctx context.Context, id string, catalog []models.ServiceCatalogItem) (*models.Provider, error)
}
