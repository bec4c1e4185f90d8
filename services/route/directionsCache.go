package route

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"shinely/models"
	"shinely/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const defaultDirectionsTTL = 5 * time.Minute

// CachedDirections memoizes leg durations in Redis keyed by the waypoint chain.
type CachedDirections struct {
	Next  DirectionsClient
	Cache *redis.Client
	TTL   time.Duration
}

func NewCachedDirections(next DirectionsClient, cache *redis.Client, ttl time.Duration) *CachedDirections {
	if ttl <= 0 {
		ttl = defaultDirectionsTTL
	}
	return &CachedDirections{Next: next, Cache: cache, TTL: ttl}
}

func (c *CachedDirections) LegDurations(ctx context.Context, waypoints []models.GeoPoint) ([]time.Duration, error) {
	if c.Cache == nil {
		return c.Next.LegDurations(ctx, waypoints)
	}
	key := directionsKey(waypoints)

	raw, err := c.Cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var seconds []int64
		if jsonErr := json.Unmarshal(raw, &seconds); jsonErr == nil && len(seconds) == len(waypoints)-1 {
			out := make([]time.Duration, len(seconds))
			for i, s := range seconds {
				out[i] = time.Duration(s) * time.Second
			}
			return out, nil
		}
	case !errors.Is(err, redis.Nil):
		utils.GetLogger().Debug("directions cache read failed", zap.Error(err))
	}

	legs, err := c.Next.LegDurations(ctx, waypoints)
	if err != nil {
		return nil, err
	}
	seconds := make([]int64, len(legs))
	for i, d := range legs {
		seconds[i] = int64(d / time.Second)
	}
	if payload, err := json.Marshal(seconds); err == nil {
		if err := c.Cache.Set(ctx, key, payload, c.TTL).Err(); err != nil {
			utils.GetLogger().Debug("directions cache write failed", zap.Error(err))
		}
	}
	return legs, nil
}

// directionsKey rounds coordinates to about a metre so jitter still hits the cache.
func directionsKey(waypoints []models.GeoPoint) string {
	parts := make([]string, len(waypoints))
	for i, p := range waypoints {
		parts[i] = fmt.Sprintf("%.5f,%.5f", p.Lat(), p.Lng())
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return "directions:v1:" + hex.EncodeToString(sum[:])
}
