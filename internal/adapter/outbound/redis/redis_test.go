package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiwonderland/imagecode/internal/infra/config"
)

// newTestClient connects to IMAGECODE_TEST_REDIS or skips.
func newTestClient(t *testing.T) *RateLimiter {
	t.Helper()
	addr := os.Getenv("IMAGECODE_TEST_REDIS")
	if addr == "" {
		t.Skip("IMAGECODE_TEST_REDIS not set")
	}
	client, err := NewClient(context.Background(), config.RedisConfig{Address: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewRateLimiter(client)
}

func TestRateLimiter(t *testing.T) {
	limiter := newTestClient(t)
	ctx := context.Background()
	key := "test:" + uuid.NewString()

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, key, 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := limiter.Allow(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	remaining, err := limiter.GetRemaining(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	ok, err = limiter.AllowN(ctx, "test:"+uuid.NewString(), 4, 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResultCache(t *testing.T) {
	limiter := newTestClient(t)
	cache := NewResultCache(limiter.client, time.Minute)
	ctx := context.Background()
	key := uuid.NewString()

	data, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, cache.Set(ctx, key, []byte(`{"code":"x"}`), 0))
	data, err = cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"code":"x"}`, string(data))

	ttl, err := limiter.client.TTL(ctx, resultCacheKeyPrefix+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.Equal(t, "redis", cache.Name())
}
