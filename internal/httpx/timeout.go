package httpx

import (
	"context"
	"fmt"
	"time"
)

// WithTimeout races fn against a timer. If the timer fires first the returned
// error names the operation and the timeout; fn's context is cancelled so it
// can abandon its work.
func WithTimeout[T any](ctx context.Context, timeout time.Duration, operation string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	opCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := fn(opCtx)
		done <- outcome{value: v, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		return out.value, out.err
	case <-timer.C:
		return zero, fmt.Errorf("%s timed out after %s", operation, timeout)
	case <-ctx.Done():
		return zero, fmt.Errorf("%s cancelled: %w", operation, ctx.Err())
	}
}
