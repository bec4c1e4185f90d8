package providerRepo

import (
	"context"
	"sync"

	"shinely/models"
)

// MemoryProviderRepo is an in-process ProviderRepository for tests and local runs.
type MemoryProviderRepo struct {
	mu        sync.RWMutex
	providers map[string]models.Provider
}

func NewMemoryProviderRepo(seed ...models.Provider) *MemoryProviderRepo {
	r := &MemoryProviderRepo{providers: make(map[string]models.Provider, len(seed))}
	for _, p := range seed {
		r.providers[p.ID] = p
	}
	return r
}

func (r *MemoryProviderRepo) GetByID(_ context.Context, id string) (*models.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[id]
	if !ok {
		return nil, ErrProviderNotFound
	}
	return &p, nil
}

func (r *MemoryProviderRepo) Create(_ context.Context, provider *models.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[provider.ID] = *provider
	return nil
}

func (r *MemoryProviderRepo) UpdateSchedule(_ context.Context, id string, schedule models.ProviderSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok {
		return ErrProviderNotFound
	}
	p.Schedule = schedule
	r.providers[id] = p
	return nil
}

func (r *MemoryProviderRepo) UpdateCatalog(_ context.Context, id string, catalog []models.ServiceCatalogItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok {
		return ErrProviderNotFound
	}
	p.Catalog = catalog
	r.providers[id] = p
	return nil
}
