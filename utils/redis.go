package utils

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps the redis client. A nil Cache (redis not configured) is safe to
// use; every operation reports a miss.
type Cache struct {
	Client *redis.Client
}

// NewCache connects to redis with short timeouts.
func NewCache(addr string) *Cache {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Cache{Client: client}
}

// Healthy verifies redis connectivity.
func (c *Cache) Healthy(ctx context.Context) bool {
	if c == nil || c.Client == nil {
		return false
	}
	return c.Client.Ping(ctx).Err() == nil
}

// Get returns the cached value or "" on miss/error.
func (c *Cache) Get(ctx context.Context, key string) string {
	if c == nil || c.Client == nil {
		return ""
	}
	val, err := c.Client.Get(ctx, key).Result()
	if err != nil {
		return ""
	}
	return val
}

// Set stores a value with a TTL, best effort.
func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if c == nil || c.Client == nil {
		return
	}
	if err := c.Client.Set(ctx, key, value, ttl).Err(); err != nil && ErrorLogger != nil {
		ErrorLogger.Printf("cache set failed for %s: %v", key, err)
	}
}
