package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// counterStore is the subset of redis.Cmdable the limiter needs.
type counterStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	PTTL(ctx context.Context, key string) *redis.DurationCmd
}

// AttemptLimiter counts attempts per key in fixed windows backed by Redis.
// Key format: attempts:<scope>:<key>
type AttemptLimiter struct {
	client counterStore
	scope  string
	max    int64
	window time.Duration
}

// NewAttemptLimiter allows max attempts per key within each window.
func NewAttemptLimiter(client *redis.Client, scope string, max int, window time.Duration) *AttemptLimiter {
	return newAttemptLimiter(client, scope, max, window)
}

func newAttemptLimiter(client counterStore, scope string, max int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{client: client, scope: scope, max: int64(max), window: window}
}

// Allow records one attempt for key and reports whether it is within the
// limit. When it is not, retryAfter is the time left in the current window.
func (l *AttemptLimiter) Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error) {
	k := l.key(key)

	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, 0, fmt.Errorf("attempt limiter: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, 0, fmt.Errorf("attempt limiter: %w", err)
		}
	}
	if n <= l.max {
		return true, 0, nil
	}

	ttl, err := l.client.PTTL(ctx, k).Result()
	if err != nil || ttl < 0 {
		// Re-arm a key that lost its TTL.
		_ = l.client.Expire(ctx, k, l.window).Err()
		ttl = l.window
	}
	return false, ttl, nil
}

func (l *AttemptLimiter) key(key string) string {
	return fmt.Sprintf("attempts:%s:%s", l.scope, key)
}
