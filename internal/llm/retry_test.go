package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	var calls []int
	var retried []int

	p := RetryPolicy{
		MaxRetries: 2,
		OnRetry:    func(attempt, attempts int, err error) { retried = append(retried, attempt) },
	}
	got, err := Retry(context.Background(), p, func(ctx context.Context, attempt int) (string, error) {
		calls = append(calls, attempt)
		if attempt < 3 {
			return "", errors.New("boom")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, []int{1, 2, 3}, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestRetry_ExhaustedWrapsLastError(t *testing.T) {
	last := errors.New("third failure")
	calls := 0

	_, err := Retry(context.Background(), RetryPolicy{MaxRetries: 2}, func(ctx context.Context, attempt int) (int, error) {
		calls++
		if attempt == 3 {
			return 0, last
		}
		return 0, errors.New("earlier failure")
	})

	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.ErrorIs(t, err, last)
	assert.Contains(t, err.Error(), "3 attempts")
}

func TestRetry_ZeroRetriesIsSingleAttempt(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), RetryPolicy{}, func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, errors.New("no")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_FixedDelayBetweenAttempts(t *testing.T) {
	var stamps []time.Time
	p := RetryPolicy{MaxRetries: 2, Delay: 20 * time.Millisecond}

	_, _ = Retry(context.Background(), p, func(ctx context.Context, attempt int) (int, error) {
		stamps = append(stamps, time.Now())
		return 0, errors.New("fail")
	})

	require.Len(t, stamps, 3)
	for i := 1; i < len(stamps); i++ {
		assert.GreaterOrEqual(t, stamps[i].Sub(stamps[i-1]), 20*time.Millisecond)
	}
}

func TestRetry_CancelStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	_, err := Retry(ctx, RetryPolicy{MaxRetries: 5, Delay: time.Hour}, func(ctx context.Context, attempt int) (int, error) {
		calls++
		cancel()
		return 0, errors.New("fail")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrRetryExhausted)
	assert.Equal(t, 1, calls)
}
