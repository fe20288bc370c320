package poller

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoopStopsOnTerminal(t *testing.T) {
	calls := 0
	res, err := Loop(context.Background(), func(ctx context.Context) (Result, error) {
		calls++
		if calls == 3 {
			return Result{Terminal: true, Status: "success", Code: "1234"}, nil
		}
		return Result{Status: "waiting"}, nil
	}, Options{Interval: time.Millisecond})
	if err != nil {
		t.Fatalf("Loop returned error: %v", err)
	}
	if calls != 3 {
		t.Errorf("poll called %d times, want 3", calls)
	}
	if res.Code != "1234" {
		t.Errorf("terminal code = %q, want 1234", res.Code)
	}
}

func TestLoopGivesUpAfterConsecutiveErrors(t *testing.T) {
	pollErr := errors.New("connection refused")
	calls := 0
	_, err := Loop(context.Background(), func(ctx context.Context) (Result, error) {
		calls++
		return Result{}, pollErr
	}, Options{Interval: time.Millisecond, MaxErrors: 5})
	if !errors.Is(err, pollErr) {
		t.Fatalf("Loop error = %v, want %v", err, pollErr)
	}
	if calls != 5 {
		t.Errorf("poll called %d times, want 5", calls)
	}
}

func TestLoopErrorCounterResetsOnSuccess(t *testing.T) {
	// Pattern: err, err, ok, err, err, ok, ..., terminal. Never five in
	// a row, so the loop must survive past MaxErrors total failures.
	calls := 0
	res, err := Loop(context.Background(), func(ctx context.Context) (Result, error) {
		calls++
		if calls == 12 {
			return Result{Terminal: true, Status: "success"}, nil
		}
		if calls%3 == 0 {
			return Result{Status: "waiting"}, nil
		}
		return Result{}, errors.New("flaky")
	}, Options{Interval: time.Millisecond, MaxErrors: 5})
	if err != nil {
		t.Fatalf("Loop returned error: %v", err)
	}
	if !res.Terminal {
		t.Error("expected terminal result")
	}
}

func TestLoopHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := Loop(ctx, func(ctx context.Context) (Result, error) {
		return Result{Status: "waiting"}, nil
	}, Options{Interval: time.Hour})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Loop error = %v, want context.Canceled", err)
	}
}

func TestLoopReportsEveryResult(t *testing.T) {
	var seen []string
	calls := 0
	_, err := Loop(context.Background(), func(ctx context.Context) (Result, error) {
		calls++
		if calls == 2 {
			return Result{Terminal: true, Status: "cancelled"}, nil
		}
		return Result{Status: "waiting"}, nil
	}, Options{Interval: time.Millisecond, OnResult: func(r Result) {
		seen = append(seen, r.Status)
	}})
	if err != nil {
		t.Fatalf("Loop returned error: %v", err)
	}
	if len(seen) != 2 || seen[0] != "waiting" || seen[1] != "cancelled" {
		t.Errorf("observed results = %v, want [waiting cancelled]", seen)
	}
}
