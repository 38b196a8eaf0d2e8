package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// RedisClient is the subset of redis.Client commands the limiter uses.
type RedisClient interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisLimiter is a fixed-window limiter backed by a shared Redis counter,
// for deployments where per-instance counting is not enough.
type RedisLimiter struct {
	client   RedisClient
	requests int
	window   time.Duration
}

// NewRedisLimiter creates a RedisLimiter.
func NewRedisLimiter(client RedisClient, requests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:   client,
		requests: requests,
		window:   window,
	}
}

// Allow implements Limiter. The first hit in a window creates the counter
// with a TTL; the window resets when the key expires.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := redisKeyPrefix + key

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, err
		}
	}

	return count <= int64(l.requests), nil
}

// Ensure implementations satisfy the interfaces.
var (
	_ Limiter     = (*MemoryLimiter)(nil)
	_ Limiter     = (*RedisLimiter)(nil)
	_ RedisClient = (*redis.Client)(nil)
)
