package resource

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy wraps control-plane calls in exponential-randomized backoff,
// retrying only on a throttle signal. Parameters are fixed: 4 attempts
// total, 2s base interval, 30s ceiling.
type RetryPolicy struct {
	maxAttempts int
	newBackoff  func() backoff.BackOff
}

// NewRetryPolicy builds the standard retry policy.
func NewRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		maxAttempts: 4,
		newBackoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 2 * time.Second
			b.MaxInterval = 30 * time.Second
			b.MaxElapsedTime = 0
			return b
		},
	}
}

// Run executes fn, retrying while it returns a throttle ControlPlaneError, up
// to maxAttempts total attempts. Any other error is returned immediately
// without retry. After the final failed attempt the last error is returned
// unchanged.
func Run[T any](ctx context.Context, p *RetryPolicy, fn func(ctx context.Context) (T, error)) (T, error) {
	b := p.newBackoff()

	var zero T
	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isThrottle(err) || attempt == p.maxAttempts {
			return zero, err
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			return zero, err
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(wait):
		}
	}
	return zero, lastErr
}

func isThrottle(err error) bool {
	var cpErr *ControlPlaneError
	return errors.As(err, &cpErr) && cpErr.Throttle
}
