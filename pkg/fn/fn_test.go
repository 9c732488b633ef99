package fn

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestResult(t *testing.T) {
	r := Ok(42)
	if !r.IsOk() || r.IsErr() {
		t.Fatal("Ok result misreports state")
	}
	if v, err := r.Unwrap(); v != 42 || err != nil {
		t.Fatalf("Unwrap = (%d, %v)", v, err)
	}

	boom := errors.New("boom")
	e := Err[int](boom)
	if e.IsOk() || !e.IsErr() {
		t.Fatal("Err result misreports state")
	}
	if v := e.UnwrapOr(7); v != 7 {
		t.Fatalf("UnwrapOr = %d, want 7", v)
	}

	if r := FromPair(1, nil); !r.IsOk() {
		t.Fatal("FromPair(v, nil) should be ok")
	}
	if r := FromPair(0, boom); !r.IsErr() {
		t.Fatal("FromPair(v, err) should be err")
	}
}

func TestFanOutOrderAndJoin(t *testing.T) {
	var done atomic.Int32
	out := FanOut(
		func() int { time.Sleep(20 * time.Millisecond); done.Add(1); return 1 },
		func() int { done.Add(1); return 2 },
		func() int { time.Sleep(5 * time.Millisecond); done.Add(1); return 3 },
	)

	if done.Load() != 3 {
		t.Fatalf("FanOut returned before all functions finished: %d done", done.Load())
	}
	if out[0] != 1 || out[1] != 2 || out[2] != 3 {
		t.Fatalf("results out of argument order: %v", out)
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	attempts := 0
	opts := RetryOpts{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond}

	r := Retry(context.Background(), opts, func(context.Context) Result[string] {
		attempts++
		if attempts < 3 {
			return Err[string](errors.New("transient"))
		}
		return Ok("done")
	})

	if v := r.UnwrapOr(""); v != "done" {
		t.Fatalf("result = %q, want done", v)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	boom := errors.New("boom")
	attempts := 0
	opts := RetryOpts{MaxAttempts: 2, InitialWait: time.Millisecond, MaxWait: time.Millisecond}

	r := Retry(context.Background(), opts, func(context.Context) Result[int] {
		attempts++
		return Err[int](boom)
	})

	if _, err := r.Unwrap(); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
}

func TestNoRetryIsSingleAttempt(t *testing.T) {
	attempts := 0
	Retry(context.Background(), NoRetry, func(context.Context) Result[int] {
		attempts++
		return Err[int](errors.New("boom"))
	})
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1", attempts)
	}
}

func TestRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := RetryOpts{MaxAttempts: 5, InitialWait: time.Second, MaxWait: time.Second}
	r := Retry(ctx, opts, func(context.Context) Result[int] {
		return Err[int](errors.New("transient"))
	})

	if _, err := r.Unwrap(); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
