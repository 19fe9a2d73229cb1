package notify

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// Sleeper waits for the given duration or until the context is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepWithContext is the production Sleeper.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ExponentialBackoff yields base, base*multiplier, base*multiplier^2, ...
func ExponentialBackoff(base time.Duration, multiplier int64) retry.Backoff {
	next := base
	return retry.BackoffFunc(func() (time.Duration, bool) {
		current := next
		next = time.Duration(int64(next) * multiplier)
		return current, false
	})
}

// AttemptOutcome describes a bounded-retry run.
type AttemptOutcome struct {
	Success  bool
	Attempts int
	LastErr  error
	Elapsed  time.Duration
}

// RunWithBackoff executes op up to maxAttempts times, sleeping per the
// backoff schedule after every failed attempt. Attempts are strictly
// sequential. The sleep after the final failure is kept deliberately: the
// schedule's shape is part of the notifier's observable behavior.
func RunWithBackoff(ctx context.Context, maxAttempts int, backoff retry.Backoff, sleep Sleeper, op func(ctx context.Context) error) AttemptOutcome {
	start := time.Now()
	outcome := AttemptOutcome{}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		outcome.Attempts = attempt
		err := op(ctx)
		if err == nil {
			outcome.Success = true
			break
		}
		outcome.LastErr = err

		delay, stop := backoff.Next()
		if stop {
			break
		}
		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			break
		}
	}

	outcome.Elapsed = time.Since(start)
	return outcome
}
