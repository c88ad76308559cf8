package ratelimiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardly/boardly/pkg/ratelimiter"
)

func newBucket(t *testing.T, cfg ratelimiter.Config) *ratelimiter.Bucket {
	t.Helper()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(store.Close)
	b, err := ratelimiter.NewBucket(store, cfg)
	require.NoError(t, err)
	return b
}

func TestNewBucket_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  ratelimiter.Config
	}{
		{name: "zero capacity", cfg: ratelimiter.Config{Capacity: 0, RefillRate: 1, RefillInterval: time.Second}},
		{name: "negative rate", cfg: ratelimiter.Config{Capacity: 1, RefillRate: -1, RefillInterval: time.Second}},
		{name: "zero interval", cfg: ratelimiter.Config{Capacity: 1, RefillRate: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0)), tt.cfg)
			assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
		})
	}
}

func TestBucket_Allow(t *testing.T) {
	t.Parallel()
	b := newBucket(t, ratelimiter.Config{Capacity: 3, RefillRate: 1, RefillInterval: time.Hour})
	ctx := context.Background()

	for i := range 3 {
		res, err := b.Allow(ctx, "2fa:user-1")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
		assert.Equal(t, 3, res.Limit)
		assert.Equal(t, 2-i, res.Remaining)
		assert.Zero(t, res.RetryAfter())
	}

	res, err := b.Allow(ctx, "2fa:user-1")
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.Greater(t, res.RetryAfter(), 59*time.Minute)

	other, err := b.Allow(ctx, "2fa:user-2")
	require.NoError(t, err)
	assert.True(t, other.Allowed(), "keys are independent")
}

func TestBucket_Refill(t *testing.T) {
	t.Parallel()
	b := newBucket(t, ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: 20 * time.Millisecond})
	ctx := context.Background()

	_, err := b.AllowN(ctx, "k", 2)
	require.NoError(t, err)
	res, err := b.Allow(ctx, "k")
	require.NoError(t, err)
	require.False(t, res.Allowed())

	assert.Eventually(t, func() bool {
		res, err := b.Status(ctx, "k")
		return err == nil && res.Remaining >= 1
	}, time.Second, 10*time.Millisecond)
}

func TestBucket_AllowN_InvalidCount(t *testing.T) {
	t.Parallel()
	b := newBucket(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second})

	_, err := b.AllowN(context.Background(), "k", 0)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
}

func TestBucket_StatusAndReset(t *testing.T) {
	t.Parallel()
	b := newBucket(t, ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Hour})
	ctx := context.Background()

	_, err := b.AllowN(ctx, "k", 2)
	require.NoError(t, err)

	status, err := b.Status(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 0, status.Remaining)
	assert.True(t, status.Allowed(), "status does not consume")

	require.NoError(t, b.Reset(ctx, "k"))
	status, err = b.Status(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 2, status.Remaining)
}

func TestBucket_UserAttemptBudget(t *testing.T) {
	t.Parallel()
	var limiter ratelimiter.RateLimiter = newBucket(t, ratelimiter.Config{Capacity: 3, RefillRate: 1, RefillInterval: time.Hour})
	ctx := context.Background()
	key := "2fa:3f1c0e4a-8d2b-4c55-9a61-1b7e2f9d0c11"

	for i := range 3 {
		res, err := limiter.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, res.Allowed(), "attempt %d", i+1)
		assert.Zero(t, res.RetryAfter())
	}

	res, err := limiter.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, res.Allowed(), "fourth guess within the hour is refused")
	assert.Positive(t, res.RetryAfter())

	other, err := limiter.Allow(ctx, "2fa:another-user")
	require.NoError(t, err)
	assert.True(t, other.Allowed(), "budgets are per user")

	require.NoError(t, limiter.Reset(ctx, key))
	res, err = limiter.Allow(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Remaining, "a verified user starts over")
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	t.Parallel()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(store.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := store.ConsumeTokens(ctx, "k", 1, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second})
	assert.ErrorIs(t, err, ratelimiter.ErrContextCancelled)
	assert.Zero(t, store.Len())
}

func TestMemoryStore_CloseTwice(t *testing.T) {
	t.Parallel()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(time.Millisecond))
	assert.NotPanics(t, func() {
		store.Close()
		store.Close()
	})
}

func TestMemoryStore_RefillWithClock(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := ratelimiter.NewMemoryStore(
		ratelimiter.WithCleanupInterval(0),
		ratelimiter.WithStoreClock(func() time.Time { return now }),
	)
	t.Cleanup(store.Close)

	b, err := ratelimiter.NewBucket(store, ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Minute})
	require.NoError(t, err)
	ctx := context.Background()

	for range 2 {
		res, err := b.Allow(ctx, "user")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
	}
	res, err := b.Allow(ctx, "user")
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.Equal(t, now.Add(time.Minute), res.ResetAt)

	// the denied attempt also cost a token, so one interval is not enough
	now = now.Add(time.Minute)
	res, err = b.Allow(ctx, "user")
	require.NoError(t, err)
	assert.False(t, res.Allowed())

	now = now.Add(3 * time.Minute)
	res, err = b.Allow(ctx, "user")
	require.NoError(t, err)
	assert.True(t, res.Allowed())
	assert.Equal(t, 1, res.Remaining)
}
