// Package retry holds the two waiting primitives used against remote APIs:
// exponential backoff with jitter for transient errors, and a fixed-interval
// poll for remote resources that are still being processed.
package retry

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the context-aware default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ExhaustedError reports that every attempt failed with a retryable error.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// Backoff retries an operation with waits of Base*2^attempt plus a random
// jitter in [0, MaxJitter). MaxJitter must not exceed Base for the waits to
// be non-decreasing.
type Backoff struct {
	Attempts  int
	Base      time.Duration
	MaxJitter time.Duration

	// Retryable decides whether an error is worth another attempt. Errors
	// it rejects are returned unchanged.
	Retryable func(error) bool
	// OnRetry is called before each wait.
	OnRetry func(attempt int, wait time.Duration, err error)

	Sleep  SleepFunc
	Jitter func() time.Duration
}

// Delay returns the wait after the given zero-based failed attempt.
func (b Backoff) Delay(attempt int) time.Duration {
	d := b.Base << uint(attempt)
	if b.Jitter != nil {
		return d + b.Jitter()
	}
	if b.MaxJitter > 0 {
		d += rand.N(b.MaxJitter)
	}
	return d
}

// Do runs fn until it succeeds, returns a non-retryable error, or the attempt
// budget is spent. fn receives the zero-based attempt number.
func (b Backoff) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	attempts := b.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	sleep := b.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	var last error
	for attempt := 0; attempt < attempts; attempt++ {
		err := fn(ctx, attempt)
		if err == nil {
			return nil
		}
		if b.Retryable == nil || !b.Retryable(err) {
			return err
		}
		last = err

		if attempt == attempts-1 {
			break
		}
		wait := b.Delay(attempt)
		if b.OnRetry != nil {
			b.OnRetry(attempt, wait, err)
		}
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}

	return &ExhaustedError{Attempts: attempts, Last: last}
}

// Poll calls check every interval until it reports done or fails. The first
// check runs immediately.
func Poll(ctx context.Context, interval time.Duration, sleep SleepFunc, check func(ctx context.Context) (bool, error)) error {
	if sleep == nil {
		sleep = Sleep
	}
	for {
		done, err := check(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if err := sleep(ctx, interval); err != nil {
			return err
		}
	}
}
