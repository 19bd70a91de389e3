package rate

import (
	"context"
	_ "embed"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	//go:embed tokenbucket.lua
	tokenBucketLua       string
	tokenBucketLuaScript = redis.NewScript(tokenBucketLua)
)

// TokenBucketLimiter is a Redis-backed token bucket shared by every process that
// uses the same prefix. A bucket holds at most capacity tokens and refills at rate
// tokens per second.
type TokenBucketLimiter struct {
	client   redis.Scripter
	prefix   string
	capacity int
	rate     int
	script   *redis.Script
}

func NewTokenBucketLimiter(client redis.Scripter, prefix string, capacity, rate int) *TokenBucketLimiter {
	if capacity < 1 {
		capacity = 1
	}
	if rate < 1 {
		rate = 1
	}
	return &TokenBucketLimiter{
		client:   client,
		prefix:   prefix,
		capacity: capacity,
		rate:     rate,
		script:   tokenBucketLuaScript,
	}
}

func (lim *TokenBucketLimiter) AllowN(ctx context.Context, key string, t time.Time, n int) (bool, error) {
	result, err := lim.script.Run(ctx, lim.client, []string{lim.prefix + ":" + key},
		lim.capacity, lim.rate, t.UnixMilli(), n).Int64()
	if err != nil {
		return false, err
	}
	return result == 1, nil
}
