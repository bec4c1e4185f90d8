package route

import (
	"context"
	"testing"
	"time"

	"shinely/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedDirections(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	next := &fakeDirections{legs: []time.Duration{5 * time.Minute, 7 * time.Minute}}
	cached := NewCachedDirections(next, client, time.Minute)
	ctx := context.Background()
	waypoints := []models.GeoPoint{models.NewGeoPoint(1, 1), models.NewGeoPoint(1.01, 1), models.NewGeoPoint(1.02, 1)}

	first, err := cached.LegDurations(ctx, waypoints)
	require.NoError(t, err)
	second, err := cached.LegDurations(ctx, waypoints)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.callCount())
	assert.True(t, mr.Exists(directionsKey(waypoints)))

	mr.FastForward(2 * time.Minute)
	_, err = cached.LegDurations(ctx, waypoints)
	require.NoError(t, err)
	assert.Equal(t, 2, next.callCount())
}

func TestCachedDirectionsDoesNotCacheErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	next := &fakeDirections{err: assert.AnError}
	cached := NewCachedDirections(next, client, time.Minute)
	waypoints := []models.GeoPoint{models.NewGeoPoint(1, 1), models.NewGeoPoint(2, 2)}

	_, err := cached.LegDurations(context.Background(), waypoints)
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, mr.Exists(directionsKey(waypoints)))
}
