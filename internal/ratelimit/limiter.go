// Package ratelimit provides a Redis-backed fixed-window request limiter
// and the HTTP middleware enforcing it per client IP.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result reports one rate-limit decision.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Allower decides whether a keyed request may proceed. The middleware
// depends on this interface so tests can stub the Redis round trip.
type Allower interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

// Limiter counts requests per key in fixed windows using Redis INCR with a
// window-length expiry. Counter increments are atomic, so concurrent
// requests against the same key cannot overshoot by more than the in-flight
// batch.
type Limiter struct {
	client    *redis.Client
	keyPrefix string
}

var _ Allower = (*Limiter)(nil)

func NewLimiter(client *redis.Client, keyPrefix string) *Limiter {
	return &Limiter{client: client, keyPrefix: keyPrefix}
}

// Allow increments the window counter for key and compares it to limit.
func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	redisKey := l.keyPrefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit incr: %w", err)
	}

	// First hit opens the window.
	if count == 1 {
		if err := l.client.PExpire(ctx, redisKey, window).Err(); err != nil {
			return Result{}, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	ttl, err := l.client.PTTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}

	res := Result{
		Allowed:   count <= int64(limit),
		Limit:     limit,
		Remaining: limit - int(count),
		ResetAt:   time.Now().Add(ttl),
	}
	if res.Remaining < 0 {
		res.Remaining = 0
	}

	return res, nil
}

// Reset clears the window for a key.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.keyPrefix+key).Err()
}
