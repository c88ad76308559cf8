package ratelimiter_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardly/boardly/pkg/ratelimiter"
)

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	store := ratelimiter.NewRedisStore(client, "boardly:test:ratelimit:")
	b, err := ratelimiter.NewBucket(store, ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Minute})
	require.NoError(t, err)

	key := "user-" + time.Now().Format("150405.000000")
	t.Cleanup(func() { _ = b.Reset(ctx, key) })

	for i := range 2 {
		res, err := b.Allow(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, 1-i, res.Remaining)
	}

	res, err := b.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.WithinDuration(t, time.Now().Add(time.Minute), res.ResetAt, 5*time.Second)

	require.NoError(t, b.Reset(ctx, key))
	res, err = b.Allow(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Remaining)
}
