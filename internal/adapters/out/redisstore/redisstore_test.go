package redisstore_test

import (
	"testing"
	"time"

	"fulfillment/internal/adapters/out/redisstore"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestAttemptLimiter_FixedWindow(t *testing.T) {
	mr, client := newClient(t)
	limiter := redisstore.NewAttemptLimiter(client, 3, time.Minute)
	orderID := kernel.NewUUID()
	ctx := t.Context()

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Allow(ctx, orderID))
	}
	assert.ErrorIs(t, limiter.Allow(ctx, orderID), errs.ErrTooManyAttempts)

	assert.NoError(t, limiter.Allow(ctx, kernel.NewUUID()), "other orders have their own window")

	mr.FastForward(time.Minute)
	assert.NoError(t, limiter.Allow(ctx, orderID), "a new window starts after expiry")
}

func TestAttemptLimiter_SetsExpiryOnFirstAttempt(t *testing.T) {
	mr, client := newClient(t)
	limiter := redisstore.NewAttemptLimiter(client, 5, 30*time.Second)
	orderID := kernel.NewUUID()

	require.NoError(t, limiter.Allow(t.Context(), orderID))

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, 30*time.Second, mr.TTL(keys[0]))
}

func TestAttemptLimiter_RedisDown(t *testing.T) {
	mr, client := newClient(t)
	limiter := redisstore.NewAttemptLimiter(client, 5, time.Minute)
	mr.Close()

	err := limiter.Allow(t.Context(), kernel.NewUUID())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrTooManyAttempts)
}

func TestIdempotencyStore_ReserveAndRelease(t *testing.T) {
	mr, client := newClient(t)
	store := redisstore.NewIdempotencyStore(client)
	ctx := t.Context()

	ok, err := store.Reserve(ctx, "req-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Reserve(ctx, "req-1", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "a replayed key is refused")

	require.NoError(t, store.Release(ctx, "req-1"))
	ok, err = store.Reserve(ctx, "req-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok, "a released key can be reserved again")

	mr.FastForward(time.Hour)
	ok, err = store.Reserve(ctx, "req-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok, "keys expire")
}
