package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestBreaker_OpensAfterThresholdFailures(t *testing.T) {
	t.Parallel()

	b := NewBreaker(3, time.Minute, 1)

	for i := 0; i < 2; i++ {
		b.RecordFailure()
		if err := b.Allow(); err != nil {
			t.Fatalf("breaker rejected request after %d failures: %v", i+1, err)
		}
	}

	b.RecordFailure()
	if err := b.Allow(); !errors.Is(err, ErrBreakerOpen) {
		t.Fatalf("Allow() = %v, want ErrBreakerOpen", err)
	}
	if got := b.State(); got != BreakerOpen {
		t.Fatalf("State() = %q, want %q", got, BreakerOpen)
	}
}

func TestBreaker_SuccessResetsFailureRun(t *testing.T) {
	t.Parallel()

	b := NewBreaker(2, time.Minute, 1)

	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()

	if err := b.Allow(); err != nil {
		t.Fatalf("breaker opened despite interleaved success: %v", err)
	}
}

func TestBreaker_HalfOpenProbesAndCloses(t *testing.T) {
	t.Parallel()

	b := NewBreaker(1, 10*time.Millisecond, 1)
	now := time.Now()
	b.now = func() time.Time { return now }

	b.RecordFailure()
	if err := b.Allow(); !errors.Is(err, ErrBreakerOpen) {
		t.Fatalf("Allow() = %v, want ErrBreakerOpen", err)
	}

	now = now.Add(20 * time.Millisecond)
	if err := b.Allow(); err != nil {
		t.Fatalf("half-open probe rejected: %v", err)
	}
	// Second probe exceeds the half-open budget.
	if err := b.Allow(); !errors.Is(err, ErrBreakerOpen) {
		t.Fatalf("second probe Allow() = %v, want ErrBreakerOpen", err)
	}

	b.RecordSuccess()
	if got := b.State(); got != BreakerClosed {
		t.Fatalf("State() after successful probe = %q, want %q", got, BreakerClosed)
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	t.Parallel()

	b := NewBreaker(1, 10*time.Millisecond, 1)
	now := time.Now()
	b.now = func() time.Time { return now }

	b.RecordFailure()
	now = now.Add(20 * time.Millisecond)
	if err := b.Allow(); err != nil {
		t.Fatalf("half-open probe rejected: %v", err)
	}

	b.RecordFailure()
	if err := b.Allow(); !errors.Is(err, ErrBreakerOpen) {
		t.Fatalf("Allow() = %v, want ErrBreakerOpen after failed probe", err)
	}
}
