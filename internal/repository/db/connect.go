package db

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/juju/clock"
)

// ErrMaxAttemptsExceeded is returned when a store could not be opened within
// the configured number of attempts.
var ErrMaxAttemptsExceeded = errors.New("max number of connect attempts exceeded")

const (
	maxJitter  = 250 * time.Millisecond
	maxBackoff = 30 * time.Second
)

// Connect calls open until it succeeds, waiting an exponential back-off on clk
// between attempts. onRetry, if set, is told about each failed attempt.
func Connect[T any](ctx context.Context, clk clock.Clock, maxAttempts int, open func() (T, error), onRetry func(attempt int, wait time.Duration, err error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		v, err := open()
		if err == nil {
			return v, nil
		}
		lastErr = err
		if attempt == maxAttempts {
			break
		}

		wait := backoff(attempt)
		if onRetry != nil {
			onRetry(attempt, wait, err)
		}
		select {
		case <-clk.After(wait):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
	return zero, fmt.Errorf("%w: %v", ErrMaxAttemptsExceeded, lastErr)
}

// backoff returns min(2^(attempt+1) ms * 100 + jitter, maxBackoff).
func backoff(attempt int) time.Duration {
	if attempt > 16 {
		return maxBackoff
	}
	jitter := time.Duration(rand.Int63n(int64(maxJitter)))
	d := time.Duration(2<<uint(attempt))*100*time.Millisecond + jitter
	if d < maxBackoff {
		return d
	}
	return maxBackoff
}
