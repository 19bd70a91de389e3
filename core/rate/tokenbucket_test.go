package rate

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/rsalab/store/redis"
)

func newLimiter(t *testing.T, capacity, rate int) *TokenBucketLimiter {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := redis.New(ctx, &redis.Config{DialTimeout: time.Second})
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return NewTokenBucketLimiter(client.UniversalClient(), "rsalab:test:"+uuid.NewString(), capacity, rate)
}

func TestTokenBucketDrainsAndRefills(t *testing.T) {
	lim := newLimiter(t, 2, 1)
	ctx := context.Background()
	now := time.Now()

	for i := range 2 {
		ok, err := lim.AllowN(ctx, "client", now, 1)
		require.NoError(t, err)
		assert.True(t, ok, "token %d", i)
	}

	ok, err := lim.AllowN(ctx, "client", now, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	// one second later one token is back
	ok, err = lim.AllowN(ctx, "client", now.Add(time.Second), 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTokenBucketKeysAreIndependent(t *testing.T) {
	lim := newLimiter(t, 1, 1)
	ctx := context.Background()

	ok, err := Allow(ctx, lim, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Allow(ctx, lim, "b")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTokenBucketRejectsOversizedRequest(t *testing.T) {
	lim := newLimiter(t, 3, 1)

	ok, err := lim.AllowN(context.Background(), "client", time.Now(), 4)
	require.NoError(t, err)
	assert.False(t, ok)
}
