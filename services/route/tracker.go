package route

import (
	"context"
	"sync"

	"shinely/models"
	"shinely/services/booking"
)

// Tracker keeps one in-flight route request per provider. A newer location
// update cancels the one it supersedes.
type Tracker struct {
	Sequencer *Sequencer

	mu       sync.Mutex
	gen      uint64
	inflight map[string]inflightRequest
	last     map[string]models.GeoPoint
}

type inflightRequest struct {
	gen    uint64
	cancel context.CancelFunc
}

func NewTracker(seq *Sequencer) *Tracker {
	return &Tracker{
		Sequencer: seq,
		inflight:  make(map[string]inflightRequest),
		last:      make(map[string]models.GeoPoint),
	}
}

// Update records the provider's location and returns a fresh plan. A request
// overtaken by a newer update returns a superseded Conflict instead of a stale plan.
func (t *Tracker) Update(ctx context.Context, req PlanRequest) (*models.RoutePlan, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t.mu.Lock()
	if prev, ok := t.inflight[req.ProviderID]; ok {
		prev.cancel()
	}
	t.gen++
	mine := t.gen
	t.inflight[req.ProviderID] = inflightRequest{gen: mine, cancel: cancel}
	if req.Current.Valid() {
		t.last[req.ProviderID] = req.Current
	}
	t.mu.Unlock()

	plan, err := t.Sequencer.Plan(ctx, req)

	t.mu.Lock()
	defer t.mu.Unlock()
	if cur, ok := t.inflight[req.ProviderID]; !ok || cur.gen != mine {
		return nil, booking.NewSchedulingError(booking.KindConflict, booking.CodeSuperseded, "location", "a newer location update replaced this request")
	}
	delete(t.inflight, req.ProviderID)
	return plan, err
}

// LastLocation returns the most recent location reported for a provider.
func (t *Tracker) LastLocation(providerID string) (models.GeoPoint, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.last[providerID]
	return p, ok
}
