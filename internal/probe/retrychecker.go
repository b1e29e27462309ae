package probe

import (
	"context"
	"time"
)

const (
	DefaultAttempts = 3
	DefaultBackoff  = time.Second
)

type RetryChecker struct {
	Inner    Checker
	Attempts int
	Backoff  time.Duration

	// sleep waits between attempts; nil uses a context-aware timer.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewRetryChecker(inner Checker, attempts int, backoff time.Duration) *RetryChecker {
	return &RetryChecker{Inner: inner, Attempts: attempts, Backoff: backoff}
}

// Check runs attempts strictly in sequence and returns the first success or,
// failing that, the last attempt unchanged.
func (r *RetryChecker) Check(ctx context.Context, target string) CheckResult {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var last CheckResult
	for i := 0; i < attempts; i++ {
		last = r.Inner.Check(ctx, target)
		last.Attempt = i + 1
		if last.Success {
			return last
		}
		if i == attempts-1 {
			break
		}
		if err := r.wait(ctx); err != nil {
			return last
		}
	}
	return last
}

func (r *RetryChecker) wait(ctx context.Context) error {
	if r.sleep != nil {
		return r.sleep(ctx, r.Backoff)
	}
	if r.Backoff <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.Backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
