package transport

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/NamanBalaji/anyio/internal/errors"
	"github.com/NamanBalaji/anyio/internal/logger"
)

const (
	defaultRetryDelay = 2 * time.Second
	maxRetryDelay     = 30 * time.Second
	backoffMultiplier = 2.0
)

// retry runs fn up to retries+1 times, backing off exponentially with
// jitter between attempts. Only errors marked retryable are attempted
// again; exhausting attempts surfaces the last underlying error, not a
// wrapper that hides it.
func retry(ctx context.Context, retries int, delay time.Duration, fn func() error) error {
	if delay <= 0 {
		delay = defaultRetryDelay
	}

	var lastErr error

	for attempt := 0; attempt <= retries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err

		if !errors.IsRetryable(err) || attempt == retries {
			break
		}

		wait := backoff(attempt, delay)
		logger.Debugf("retrying after %v (attempt %d/%d): %v", wait, attempt+1, retries, err)

		select {
		case <-ctx.Done():
			return errors.NewNetwork(ctx.Err(), "", false)
		case <-time.After(wait):
		}
	}

	return lastErr
}

// backoff returns the exponential delay for an attempt, capped and with up
// to 25% random jitter to avoid synchronized retries.
func backoff(attempt int, base time.Duration) time.Duration {
	d := float64(base) * math.Pow(backoffMultiplier, float64(attempt))
	if d > float64(maxRetryDelay) {
		d = float64(maxRetryDelay)
	}

	d += rand.Float64() * 0.25 * d

	return time.Duration(d)
}
