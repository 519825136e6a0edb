package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPolicyDelaySchedule(t *testing.T) {
	t.Parallel()

	policy := DefaultPolicy()
	if got := policy.Delay(0); got != time.Second {
		t.Fatalf("unexpected first delay: %v", got)
	}
	if got := policy.Delay(1); got != 2*time.Second {
		t.Fatalf("unexpected second delay: %v", got)
	}
	if got := policy.Delay(-1); got != time.Second {
		t.Fatalf("negative attempt should clamp to first delay, got %v", got)
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	t.Parallel()

	retryable := errors.New("busy")
	attempts := 0
	var slept []time.Duration

	err := DefaultPolicy().Do(context.Background(),
		func() error {
			attempts++
			if attempts < 3 {
				return retryable
			}
			return nil
		},
		func(err error) bool { return errors.Is(err, retryable) },
		func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		},
	)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if len(slept) != 2 || slept[0] != time.Second || slept[1] != 2*time.Second {
		t.Fatalf("unexpected backoff schedule: %v", slept)
	}
}

func TestDoNonRetryableFailsImmediately(t *testing.T) {
	t.Parallel()

	fatal := errors.New("fatal")
	attempts := 0

	err := DefaultPolicy().Do(context.Background(),
		func() error {
			attempts++
			return fatal
		},
		func(err error) bool { return false },
		func(_ context.Context, _ time.Duration) error {
			t.Fatalf("should not sleep for non-retryable error")
			return nil
		},
	)
	if !errors.Is(err, fatal) {
		t.Fatalf("expected fatal error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected exactly 1 attempt, got %d", attempts)
	}
}

func TestDoExhaustionReturnsLastError(t *testing.T) {
	t.Parallel()

	retryable := errors.New("busy")
	attempts := 0

	err := DefaultPolicy().Do(context.Background(),
		func() error {
			attempts++
			return retryable
		},
		func(err error) bool { return true },
		func(_ context.Context, _ time.Duration) error { return nil },
	)
	if !errors.Is(err, retryable) {
		t.Fatalf("expected last retryable error, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected attempt budget of 3, got %d", attempts)
	}
}

func TestDoStopsWhenContextCancelledDuringBackoff(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	err := DefaultPolicy().Do(ctx,
		func() error {
			attempts++
			return errors.New("busy")
		},
		func(err error) bool { return true },
		func(ctx context.Context, _ time.Duration) error {
			cancel()
			return ctx.Err()
		},
	)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected no further attempts after cancellation, got %d", attempts)
	}
}
