// Package redisstore keeps short lived counters and request keys in Redis so
// that several service instances share them.
package redisstore

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const attemptKeyPrefix = "fulfillment:code-attempts"

// AttemptLimiter counts verification attempts per order in a fixed window.
// The first attempt of a window starts its expiry.
type AttemptLimiter struct {
	client redis.Cmdable
	limit  int64
	window time.Duration
}

func NewAttemptLimiter(client redis.Cmdable, limit int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{client: client, limit: int64(limit), window: window}
}

func (l *AttemptLimiter) Allow(ctx context.Context, orderID kernel.UUID) error {
	key := fmt.Sprintf("%s:%s", attemptKeyPrefix, orderID)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("count attempt: %w", err)
	}
	if count == 1 {
		if err = l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("start attempt window: %w", err)
		}
	}

	if count > l.limit {
		return errs.ErrTooManyAttempts
	}
	return nil
}
