package route

import (
	"context"
	"sync"
	"time"

	"shinely/models"
)

// fakeDirections returns fixed legs, an error, or blocks until cancelled.
type fakeDirections struct {
	mu        sync.Mutex
	calls     int
	legs      []time.Duration
	err       error
	blockOnce bool
	started   chan struct{}
}

func (f *fakeDirections) LegDurations(ctx context.Context, waypoints []models.GeoPoint) ([]time.Duration, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()

	if f.blockOnce && call == 1 {
		if f.started != nil {
			close(f.started)
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.legs != nil {
		return f.legs, nil
	}
	out := make([]time.Duration, len(waypoints)-1)
	for i := range out {
		out[i] = 10 * time.Minute
	}
	return out, nil
}

func (f *fakeDirections) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
