package retry

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// BackoffFn maps a 1-based failed attempt number to the wait before the
// next attempt.
type BackoffFn func(attempt int) time.Duration

// Exponential waits base*2^attempt: 2s, 4s, 8s... for base of one second.
func Exponential(base time.Duration) BackoffFn {
	return func(attempt int) time.Duration {
		return base * time.Duration(1<<attempt)
	}
}

// Do runs fn up to attempts times, sleeping backoff(n) after failed attempt
// n. The final attempt's error is returned as-is; earlier ones are only
// logged. The backoff sleep ignores ctx cancellation on purpose: delivery
// must run to completion even when the caller has gone away, so ctx is
// passed through to fn but does not cut the loop short.
func Do(ctx context.Context, logger zerolog.Logger, attempts int, backoff BackoffFn, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		logger.Warn().Err(err).Int("attempt", attempt).Msg("attempt failed, backing off")
		time.Sleep(backoff(attempt))
	}
	return err
}
