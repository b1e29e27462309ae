package probe

import (
	"context"

	"github.com/hamed0406/alivemon/internal/domain"
)

// CheckResult is the unified result of a single probe attempt.
//
// Fields:
//   - StatusCode: HTTP status code when a response arrived; 0 for transport errors.
//   - Message: error text for failed attempts, empty otherwise.
//   - Attempt: 1-based attempt index, set by RetryChecker.
type CheckResult struct {
	Success    bool
	StatusCode int
	LatencyMS  int64
	Message    string
	Attempt    int
}

// Checker performs a single check for a given target URL.
type Checker interface {
	Check(ctx context.Context, target string) CheckResult
}

// Outcome converts a check result for url into the value handed to notifiers.
func Outcome(url string, r CheckResult) domain.Outcome {
	attempts := r.Attempt
	if attempts == 0 {
		attempts = 1
	}
	return domain.Outcome{
		Alive:      r.Success,
		URL:        url,
		StatusCode: r.StatusCode,
		ElapsedMS:  r.LatencyMS,
		Error:      r.Message,
		Attempts:   attempts,
	}
}

// MonitorURL runs checker against url and returns the resulting outcome.
func MonitorURL(ctx context.Context, checker Checker, url string) domain.Outcome {
	return Outcome(url, checker.Check(ctx, url))
}
