// Package rate limits how often a caller may run an operation.
package rate

import (
	"context"
	"time"
)

// Limiter decides whether n units may be taken for key at time t.
type Limiter interface {
	AllowN(ctx context.Context, key string, t time.Time, n int) (bool, error)
}

// Allow takes a single unit for key now.
func Allow(ctx context.Context, l Limiter, key string) (bool, error) {
	return l.AllowN(ctx, key, time.Now(), 1)
}
