package llm

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy retries a failing call a fixed number of times with a fixed
// (non-exponential) delay between attempts.
type RetryPolicy struct {
	MaxRetries int
	Delay      time.Duration

	// OnRetry is called before sleeping ahead of the next attempt.
	OnRetry func(attempt, attempts int, err error)
}

// DefaultRetryPolicy is 2 retries (3 attempts) one second apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 2, Delay: time.Second}
}

// Retry runs fn until it succeeds or the policy is exhausted. attempt is
// 1-based. The last error is returned wrapped with ErrRetryExhausted.
// Cancellation of ctx stops retrying immediately and returns ctx.Err().
func Retry[T any](ctx context.Context, p RetryPolicy, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var zero T
	attempts := 1 + max(p.MaxRetries, 0)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := fn(ctx, attempt)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		if attempt == attempts {
			break
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, attempts, err)
		}
		if err := sleep(ctx, p.Delay); err != nil {
			return zero, err
		}
	}

	return zero, fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, attempts, lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
