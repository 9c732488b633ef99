package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testBreaker(opts BreakerOpts) (*Breaker, *time.Time) {
	b := NewBreaker(opts)
	now := time.Unix(1000, 0)
	b.now = func() time.Time { return now }
	return b, &now
}

func alwaysFail(context.Context) error { return errors.New("boom") }
func alwaysOK(context.Context) error   { return nil }

func TestBreakerTripsAfterThreshold(t *testing.T) {
	b, _ := testBreaker(BreakerOpts{FailThreshold: 3, Timeout: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := b.Call(ctx, alwaysFail); errors.Is(err, ErrCircuitOpen) {
			t.Fatalf("call %d rejected before threshold", i)
		}
	}
	if b.State() != StateOpen {
		t.Fatalf("state = %v, want open", b.State())
	}
	if err := b.Call(ctx, alwaysOK); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("open breaker must reject, got %v", err)
	}
}

func TestBreakerSuccessResetsFailures(t *testing.T) {
	b, _ := testBreaker(BreakerOpts{FailThreshold: 2, Timeout: time.Minute})
	ctx := context.Background()

	b.Call(ctx, alwaysFail)
	b.Call(ctx, alwaysOK)
	b.Call(ctx, alwaysFail)

	if b.State() != StateClosed {
		t.Fatalf("state = %v, want closed (failures must reset on success)", b.State())
	}
}

func TestBreakerHalfOpenRecovery(t *testing.T) {
	b, now := testBreaker(BreakerOpts{FailThreshold: 1, Timeout: 30 * time.Second, HalfOpenMax: 1})
	ctx := context.Background()

	b.Call(ctx, alwaysFail)
	if b.State() != StateOpen {
		t.Fatalf("state = %v, want open", b.State())
	}

	*now = now.Add(31 * time.Second)
	if b.State() != StateHalfOpen {
		t.Fatalf("state = %v, want half-open after timeout", b.State())
	}

	if err := b.Call(ctx, alwaysOK); err != nil {
		t.Fatalf("probe call failed: %v", err)
	}
	if b.State() != StateClosed {
		t.Fatalf("state = %v, want closed after successful probe", b.State())
	}
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	b, now := testBreaker(BreakerOpts{FailThreshold: 1, Timeout: 30 * time.Second, HalfOpenMax: 1})
	ctx := context.Background()

	b.Call(ctx, alwaysFail)
	*now = now.Add(31 * time.Second)
	b.Call(ctx, alwaysFail) // failed probe

	if b.State() != StateOpen {
		t.Fatalf("state = %v, want open after failed probe", b.State())
	}
}

func TestBreakerDefaults(t *testing.T) {
	b := NewBreaker(BreakerOpts{})
	if b.opts != DefaultBreakerOpts {
		t.Fatalf("opts = %+v, want defaults", b.opts)
	}
}
