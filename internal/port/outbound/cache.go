package outbound

import (
	"context"
	"time"
)

// ResultCachePort stores serialized generation results.
type ResultCachePort interface {
	// Get returns the cached value, or nil with a nil error on a miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with TTL. A zero TTL uses the adapter default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Name identifies the backend in metrics.
	Name() string
}
