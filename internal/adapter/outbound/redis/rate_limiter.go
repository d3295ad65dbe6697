package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/aiwonderland/imagecode/internal/port/outbound"
)

const rateLimitKeyPrefix = "ratelimit:"

// slidingWindowScript trims the window, then admits ARGV[3] requests when
// they fit under ARGV[4]. Returns 1 when admitted, 0 otherwise.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local n = tonumber(ARGV[3])
local limit = tonumber(ARGV[4])
local nonce = ARGV[5]

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
local count = redis.call('ZCARD', key)
if count + n > limit then
  return 0
end
for i = 1, n do
  redis.call('ZADD', key, now, nonce .. ':' .. i)
end
redis.call('PEXPIRE', key, math.ceil(window / 1000000))
return 1
`)

// RateLimiter implements outbound.RateLimiterPort with a sorted-set
// sliding window.
type RateLimiter struct {
	client redis.UniversalClient
}

var _ outbound.RateLimiterPort = (*RateLimiter)(nil)

// NewRateLimiter creates a rate limiter.
func NewRateLimiter(client redis.UniversalClient) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow admits one request for key.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return r.AllowN(ctx, key, 1, limit, window)
}

// AllowN admits n requests for key atomically.
func (r *RateLimiter) AllowN(ctx context.Context, key string, n int, limit int, window time.Duration) (bool, error) {
	if n <= 0 {
		return true, nil
	}
	res, err := slidingWindowScript.Run(ctx, r.client,
		[]string{rateLimitKeyPrefix + key},
		time.Now().UnixNano(), window.Nanoseconds(), n, limit, uuid.NewString(),
	).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

// GetRemaining returns how many requests key may still make in the window.
func (r *RateLimiter) GetRemaining(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	fullKey := rateLimitKeyPrefix + key
	windowStart := time.Now().UnixNano() - window.Nanoseconds()

	pipe := r.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, fullKey, "0", strconv.FormatInt(windowStart, 10))
	countCmd := pipe.ZCard(ctx, fullKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	remaining := limit - int(countCmd.Val())
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
