// Package redis implements outbound ports on Redis.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aiwonderland/imagecode/internal/port/outbound"
)

const resultCacheKeyPrefix = "codegen:"

// ResultCache implements outbound.ResultCachePort.
type ResultCache struct {
	client     redis.UniversalClient
	defaultTTL time.Duration
}

var _ outbound.ResultCachePort = (*ResultCache)(nil)

// NewResultCache creates a result cache. defaultTTL applies when Set is
// called with a zero TTL.
func NewResultCache(client redis.UniversalClient, defaultTTL time.Duration) *ResultCache {
	return &ResultCache{client: client, defaultTTL: defaultTTL}
}

// Get returns the cached value or nil on a miss.
func (c *ResultCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, resultCacheKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// Set stores value under key.
func (c *ResultCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	return c.client.Set(ctx, resultCacheKeyPrefix+key, value, ttl).Err()
}

// Name returns the backend name.
func (c *ResultCache) Name() string {
	return "redis"
}
