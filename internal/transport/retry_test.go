package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NamanBalaji/anyio/internal/errors"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0

	err := retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.NewNetwork(errors.New("transient"), "u", true)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	calls := 0
	terminal := errors.NewIO(errors.New("permission denied"), "f")

	err := retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return terminal
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, terminal, err, "the last underlying error surfaces unwrapped")
}

func TestRetryExhaustionSurfacesLastError(t *testing.T) {
	calls := 0
	last := errors.NewNetwork(errors.New("still down"), "u", true)

	err := retry(context.Background(), 2, time.Millisecond, func() error {
		calls++
		return last
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls, "retries bound total attempts")
	assert.Equal(t, last, err)
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := retry(ctx, 5, 50*time.Millisecond, func() error {
		calls++
		cancel()
		return errors.NewNetwork(errors.New("down"), "u", true)
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	base := time.Second

	first := backoff(0, base)
	assert.GreaterOrEqual(t, first, base)
	assert.LessOrEqual(t, first, base+base/4)

	huge := backoff(20, base)
	assert.LessOrEqual(t, huge, maxRetryDelay+maxRetryDelay/4)
}
