package poller

import (
	"context"
	"time"
)

const (
	// DefaultInterval matches the UI's 3-second status loop.
	DefaultInterval = 3 * time.Second
	// DefaultMaxErrors stops the loop after this many consecutive
	// transport failures.
	DefaultMaxErrors = 5
)

// Result is one poll observation. Terminal stops the loop.
type Result struct {
	Terminal bool
	Status   string
	Code     string
}

// PollFunc performs a single status check. Implementations are expected
// to be idempotent and cache-first, so calling on an already-terminal
// activation is harmless.
type PollFunc func(ctx context.Context) (Result, error)

// Options tune a Loop. Zero values pick the defaults above.
type Options struct {
	Interval  time.Duration
	MaxErrors int
	// OnResult observes every successful poll, including the terminal
	// one. Optional.
	OnResult func(Result)
}

// Loop runs poll at a fixed interval until a terminal result, ctx
// cancellation, or MaxErrors consecutive errors. It returns the last
// terminal result when one was observed, and the last error otherwise.
// Cancellation is cooperative: the loop owns no server-side resources.
func Loop(ctx context.Context, poll PollFunc, opts Options) (Result, error) {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	maxErrors := opts.MaxErrors
	if maxErrors <= 0 {
		maxErrors = DefaultMaxErrors
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	consecutive := 0

	for {
		res, err := poll(ctx)
		if err != nil {
			consecutive++
			lastErr = err
			if consecutive >= maxErrors {
				return Result{}, lastErr
			}
		} else {
			consecutive = 0
			if opts.OnResult != nil {
				opts.OnResult(res)
			}
			if res.Terminal {
				return res, nil
			}
		}

		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-ticker.C:
		}
	}
}
