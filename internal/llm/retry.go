package llm

import (
	"context"
	"time"
)

// RetryPolicy describes bounded exponential backoff for capability calls.
type RetryPolicy struct {
	// MaxAttempts caps the total number of calls, including the first.
	MaxAttempts int
	// BaseDelay is the wait before the second attempt.
	BaseDelay time.Duration
	// Multiplier scales the delay after every failed attempt.
	Multiplier float64
	// FailFast reports errors that get a reduced budget of MaxFailFastRetries.
	FailFast func(error) bool
	// MaxFailFastRetries is how many times a fail-fast error is retried.
	MaxFailFastRetries int
}

// DefaultRetryPolicy retries up to 3 attempts with 1s, 2s backoff and
// gives overload errors a single retry.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:        3,
		BaseDelay:          time.Second,
		Multiplier:         2,
		FailFast:           IsOverloaded,
		MaxFailFastRetries: 1,
	}
}

// Attempt reports the outcome of a single call made under a policy.
type Attempt struct {
	Number int
	Err    error
	Delay  time.Duration
}

// Do runs fn until it succeeds, the attempt budget is spent, a fail-fast
// error exhausts its retries, or ctx is done. It returns the number of
// attempts made and the last error. onRetry, when non-nil, is called
// before each backoff sleep.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error, onRetry func(Attempt)) (int, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	multiplier := p.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}

	delay := p.BaseDelay
	failFastSeen := 0
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return attempt, nil
		}
		if IsCancelled(lastErr) && ctx.Err() != nil {
			return attempt, ctx.Err()
		}

		if p.FailFast != nil && p.FailFast(lastErr) {
			failFastSeen++
			if failFastSeen > p.MaxFailFastRetries {
				return attempt, lastErr
			}
		}
		if attempt == maxAttempts {
			break
		}

		if onRetry != nil {
			onRetry(Attempt{Number: attempt, Err: lastErr, Delay: delay})
		}
		if err := sleep(ctx, delay); err != nil {
			return attempt, err
		}
		delay = time.Duration(float64(delay) * multiplier)
	}
	return maxAttempts, lastErr
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
