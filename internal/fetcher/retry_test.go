package fetcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetrySucceedsFirstTry(t *testing.T) {
	t.Parallel()

	calls := 0
	err := withRetry(context.Background(), 2, func(context.Context, int) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetryReturnsLastError(t *testing.T) {
	t.Parallel()

	first := errors.New("first")
	second := errors.New("second")
	var seen []int
	err := withRetry(context.Background(), 2, func(_ context.Context, attempt int) error {
		seen = append(seen, attempt)
		if attempt == 1 {
			return first
		}
		return second
	})
	assert.Same(t, second, err)
	assert.Equal(t, []int{1, 2}, seen)
}

func TestWithRetryStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := withRetry(ctx, 3, func(context.Context, int) error {
		calls++
		cancel()
		return context.Canceled
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestWithRetryRunsAtLeastOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	_ = withRetry(context.Background(), 0, func(context.Context, int) error {
		calls++
		return errors.New("boom")
	})
	assert.Equal(t, 1, calls)
}
