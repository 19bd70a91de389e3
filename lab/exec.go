package lab

import (
	"context"
	"fmt"

	"github.com/kochabx/rsalab/errors"
)

type result[T any] struct {
	value T
	err   error
}

// submit runs fn on the worker pool under the concurrency bound and the
// generation timeout. When the caller gives up the worker keeps running and its
// result is dropped; the semaphore slot is held until the worker returns.
func submit[T any](ctx context.Context, s *Service, fn func() (T, error)) (T, error) {
	var zero T
	ctx, cancel := context.WithTimeout(ctx, s.settings.PrimeGenerationTimeout)
	defer cancel()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return zero, abandoned(ctx, s)
	}

	done := make(chan result[T], 1)
	err := s.pool.Submit(func() {
		defer s.sem.Release(1)
		defer func() {
			if r := recover(); r != nil {
				done <- result[T]{err: ErrPanic.WithCause(fmt.Errorf("%v", r))}
			}
		}()
		v, err := fn()
		done <- result[T]{value: v, err: err}
	})
	if err != nil {
		s.sem.Release(1)
		return zero, ErrBusy.WithCause(err)
	}

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		return zero, abandoned(ctx, s)
	}
}

func abandoned(ctx context.Context, s *Service) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout.WithMetadata(map[string]string{
			"timeout": s.settings.PrimeGenerationTimeout.String(),
		})
	}
	return ErrCanceled.WithCause(ctx.Err())
}
