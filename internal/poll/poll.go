// Package poll provides a fixed-interval, attempt-bounded polling loop.
//
// Unlike exponential backoff helpers, the interval here is constant: the
// poll budget must translate into a predictable wall-clock bound
// (attempts x interval), and the loop must terminate after exactly the
// configured number of attempts.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrAttemptsExhausted is returned when the condition never held within the
// attempt budget.
var ErrAttemptsExhausted = errors.New("attempts exhausted")

// Condition is evaluated once per attempt. Returning done stops the loop
// with success. Returning an error stops the loop immediately; transient
// failures should be swallowed by the condition and reported as not done.
type Condition func(attempt int) (done bool, err error)

// Until evaluates cond up to attempts times, sleeping interval between
// attempts. Context cancellation is honored during the sleep.
func Until(ctx context.Context, interval time.Duration, attempts int, cond Condition) error {
	if attempts < 1 {
		return fmt.Errorf("attempts must be at least 1, got %d", attempts)
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		done, err := cond(attempt)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		if attempt < attempts {
			select {
			case <-ctx.Done():
				return fmt.Errorf("cancelled after %d attempts: %w", attempt, ctx.Err())
			case <-time.After(interval):
			}
		}
	}

	return fmt.Errorf("%w after %d attempts", ErrAttemptsExhausted, attempts)
}
