package resilience

import (
	"context"
	"math"
	"time"
)

// Policy describes bounded exponential backoff. It is a pure description of
// the schedule; it owns no transport state.
type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
}

// DefaultPolicy matches the translation client contract: three attempts
// total, delays of 1s then 2s between them.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		Multiplier:   2.0,
	}
}

// Delay returns the pause before retry number attempt (0-based: the delay
// after the first failed attempt is Delay(0)).
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return time.Duration(float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(attempt)))
}

// Sleeper pauses between attempts. Tests inject a recorder; production code
// uses SleepContext.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext sleeps for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn until it succeeds, fails with a non-retryable error, or the
// attempt budget is exhausted. Only errors accepted by isRetryable trigger
// another attempt; exhaustion returns the last retryable error.
func (p Policy) Do(ctx context.Context, fn func() error, isRetryable func(error) bool, sleep Sleeper) error {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}
	if sleep == nil {
		sleep = SleepContext
	}

	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if isRetryable != nil && !isRetryable(err) {
			return err
		}
		if attempt == p.MaxAttempts-1 {
			break
		}
		if err := sleep(ctx, p.Delay(attempt)); err != nil {
			return err
		}
	}
	return lastErr
}
