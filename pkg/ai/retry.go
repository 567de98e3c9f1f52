package ai

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// WithRetry runs fn up to attempts times, sleeping backoff*attempt between tries.
// The last error from fn is returned once attempts are exhausted or ctx is done.
func WithRetry[T any](ctx context.Context, attempts int, backoff time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if attempts < 1 {
		attempts = 1
	}
	var (
		result  T
		lastErr error
	)
	err := retry.Do(ctx, linearBackoff(backoff, attempts), func(ctx context.Context) error {
		value, err := fn(ctx)
		if err != nil {
			lastErr = err
			return retry.RetryableError(err)
		}
		result = value
		return nil
	})
	if err != nil {
		var zero T
		if lastErr != nil {
			return zero, lastErr
		}
		return zero, err
	}
	return result, nil
}

func linearBackoff(step time.Duration, attempts int) retry.Backoff {
	var n time.Duration
	next := retry.BackoffFunc(func() (time.Duration, bool) {
		n++
		return step * n, false
	})
	return retry.WithMaxRetries(uint64(attempts-1), next)
}
