package redis

import (
	"context"
	"log/slog"
	"strconv"
	"time"
)

// RateLimiter is a fixed-window counter. The window key is created with its
// expiry before it is incremented, so a counter never outlives its window.
type RateLimiter struct {
	store  *Store
	limit  int
	window time.Duration
}

// Limiter returns a limiter admitting limit hits per key within window.
func (s *Store) Limiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window < time.Second {
		window = time.Second
	}
	return &RateLimiter{store: s, limit: limit, window: window}
}

// Allow records a hit for key. When Redis fails the hit is admitted and the
// error returned so callers can flag it.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := ratePrefix + strconv.FormatInt(int64(l.window.Seconds()), 10) + ":" + key
	if err := l.store.client.SetNX(ctx, k, 0, l.window).Err(); err != nil {
		return true, err
	}
	n, err := l.store.client.Incr(ctx, k).Result()
	if err != nil {
		return true, err
	}
	if n == 1 {
		// the window may have lapsed between SETNX and INCR
		if err := l.store.client.ExpireNX(ctx, k, l.window).Err(); err != nil {
			l.store.logger.Warn("rate limit expiry not set", slog.String("key", k), slog.String("error", err.Error()))
		}
	}
	return n <= int64(l.limit), nil
}
