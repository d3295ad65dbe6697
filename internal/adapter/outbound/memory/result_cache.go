// Package memory implements outbound ports in process.
package memory

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/aiwonderland/imagecode/internal/port/outbound"
)

// ResultCache implements outbound.ResultCachePort with a bounded,
// expiring LRU. Every entry shares the TTL given at construction.
type ResultCache struct {
	lru *expirable.LRU[string, []byte]
}

var _ outbound.ResultCachePort = (*ResultCache)(nil)

// NewResultCache creates a cache holding at most size entries for ttl.
func NewResultCache(size int, ttl time.Duration) *ResultCache {
	if size <= 0 {
		size = 256
	}
	return &ResultCache{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

// Get returns the cached value or nil on a miss.
func (c *ResultCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, nil
	}
	return v, nil
}

// Set stores a copy of value. ttl is ignored.
func (c *ResultCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.lru.Add(key, append([]byte(nil), value...))
	return nil
}

// Name returns the backend name.
func (c *ResultCache) Name() string {
	return "memory"
}

// Len returns the number of live entries.
func (c *ResultCache) Len() int {
	return c.lru.Len()
}
