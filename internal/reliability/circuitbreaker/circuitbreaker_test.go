package circuitbreaker

import (
	"testing"
	"time"
)

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	cb := New(3, 1, time.Minute)

	for i := 0; i < 3; i++ {
		if !cb.Allow() {
			t.Fatalf("request %d should pass while closed", i+1)
		}
		cb.RecordFailure()
	}

	if cb.GetState() != StateOpen {
		t.Fatalf("expected open after 3 failures, got %v", cb.GetState())
	}
	if cb.Allow() {
		t.Fatal("open circuit must fast-fail")
	}
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := New(3, 1, time.Minute)

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()
	cb.RecordFailure()

	if cb.GetState() != StateClosed {
		t.Fatal("non-consecutive failures must not trip the circuit")
	}
}

func TestHalfOpenProbeAndRecovery(t *testing.T) {
	cb := New(1, 2, 10*time.Millisecond)

	cb.RecordFailure()
	if cb.GetState() != StateOpen {
		t.Fatal("expected open")
	}

	time.Sleep(20 * time.Millisecond)
	if !cb.Allow() {
		t.Fatal("expected a probe after the timeout")
	}
	if cb.GetState() != StateHalfOpen {
		t.Fatalf("expected half-open, got %v", cb.GetState())
	}

	cb.RecordSuccess()
	if cb.GetState() != StateHalfOpen {
		t.Fatal("one success should not close a two-success breaker")
	}
	cb.RecordSuccess()
	if cb.GetState() != StateClosed {
		t.Fatal("expected closed after enough successes")
	}
}

func TestHalfOpenFailureReopens(t *testing.T) {
	cb := New(1, 1, 10*time.Millisecond)

	cb.RecordFailure()
	time.Sleep(20 * time.Millisecond)
	cb.Allow() // moves to half-open
	cb.RecordFailure()

	if cb.GetState() != StateOpen {
		t.Fatal("a half-open failure must reopen the circuit")
	}
}
