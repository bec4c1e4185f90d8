package providerRepo

import (
	"context"
	"errors"

	"shinely/models"
)

// ErrProviderNotFound is returned when no provider has the requested id.
var ErrProviderNotFound = errors.New("provider not found")

// ProviderRepository defines methods for provider data access.
type ProviderRepository interface {
	// GetByID retrieves a provider by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	// Create inserts a new provider record.
	Create(ctx context.Context, provider *models.Provider) error
	// UpdateSchedule replaces the working hours, lunch and travel buffer of a provider.
	UpdateSchedule(ctx context.Context, id string, schedule models.ProviderSchedule) error
	// UpdateCatalog replaces the service catalogue of a provider.
	UpdateCatalog(ctx context.Context, id string, catalog []models.ServiceCatalogItem) error
}
