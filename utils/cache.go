// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"shinely/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client (directions responses).
	CacheClient *redis.Client
	// LockClient is the dedicated client for provider-day booking locks.
	LockClient *redis.Client
)

func newClient(db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
}

func ping(client *redis.Client, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", name, err)
	}
}

// InitCache initializes the generic Redis cache client.
func InitCache() {
	CacheClient = newClient(config.AppConfig.RedisCacheDB)
	ping(CacheClient, "Cache")
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitLockCache initializes the Redis client used for booking locks.
func InitLockCache() {
	LockClient = newClient(config.AppConfig.RedisLockDB)
	ping(LockClient, "Locks")
}

// GetLockClient returns the Redis client used for booking locks.
func GetLockClient() *redis.Client {
	if LockClient == nil {
		InitLockCache()
	}
	return LockClient
}

// InitRedis initializes every Redis client the server uses.
func InitRedis() {
	GetCacheClient()
	if config.AppConfig.UseRedisLocks {
		GetLockClient()
	}
}
