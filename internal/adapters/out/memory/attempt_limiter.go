package memory

import (
	"context"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// idempotencySweepInterval bounds how often Reserve scans for expired keys.
const idempotencySweepInterval = time.Minute

// AttemptLimiter is a per-order fixed window counter kept in process memory.
// Closed windows are dropped at most once per window length.
type AttemptLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	now       func() time.Time
	windows   map[kernel.UUID]attemptWindow
	nextSweep time.Time
}

type attemptWindow struct {
	startedAt time.Time
	count     int
}

func NewAttemptLimiter(limit int, window time.Duration, now func() time.Time) *AttemptLimiter {
	if now == nil {
		now = time.Now
	}
	return &AttemptLimiter{
		limit:   limit,
		window:  window,
		now:     now,
		windows: make(map[kernel.UUID]attemptWindow),
	}
}

func (l *AttemptLimiter) Allow(_ context.Context, orderID kernel.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	w, ok := l.windows[orderID]
	if !ok || now.Sub(w.startedAt) >= l.window {
		w = attemptWindow{startedAt: now}
	}
	w.count++
	l.windows[orderID] = w

	if w.count > l.limit {
		return errs.ErrTooManyAttempts
	}
	return nil
}

func (l *AttemptLimiter) sweep(now time.Time) {
	if now.Before(l.nextSweep) {
		return
	}
	for id, w := range l.windows {
		if now.Sub(w.startedAt) >= l.window {
			delete(l.windows, id)
		}
	}
	l.nextSweep = now.Add(l.window)
}

// IdempotencyStore keeps reserved request keys until they expire.
type IdempotencyStore struct {
	mu        sync.Mutex
	now       func() time.Time
	keys      map[string]time.Time
	nextSweep time.Time
}

func NewIdempotencyStore(now func() time.Time) *IdempotencyStore {
	if now == nil {
		now = time.Now
	}
	return &IdempotencyStore{now: now, keys: make(map[string]time.Time)}
}

func (s *IdempotencyStore) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	if expiresAt, taken := s.keys[key]; taken && now.Before(expiresAt) {
		return false, nil
	}
	s.keys[key] = now.Add(ttl)
	return true, nil
}

func (s *IdempotencyStore) sweep(now time.Time) {
	if now.Before(s.nextSweep) {
		return
	}
	for key, expiresAt := range s.keys {
		if !now.Before(expiresAt) {
			delete(s.keys, key)
		}
	}
	s.nextSweep = now.Add(idempotencySweepInterval)
}

func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.keys, key)
	return nil
}
