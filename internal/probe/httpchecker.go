package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const DefaultTimeout = 10 * time.Second

type HTTPChecker struct {
	Client *http.Client
	Logger *zap.Logger
}

func NewHTTPChecker(timeout time.Duration, logger *zap.Logger) *HTTPChecker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPChecker{
		Client: &http.Client{Timeout: timeout},
		Logger: logger,
	}
}

// Check sends one GET to target. Only an exact 200 counts as alive.
func (h *HTTPChecker) Check(ctx context.Context, target string) CheckResult {
	start := time.Now()
	res := h.do(ctx, target)
	res.LatencyMS = time.Since(start).Milliseconds()

	fields := []zap.Field{
		zap.String("url", target),
		zap.Int("status", res.StatusCode),
		zap.Int64("elapsed_ms", res.LatencyMS),
	}
	if res.Success {
		h.Logger.Info("probe_ok", fields...)
	} else {
		h.Logger.Warn("probe_failed", append(fields, zap.String("error", res.Message))...)
	}
	return res
}

func (h *HTTPChecker) do(ctx context.Context, target string) CheckResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return CheckResult{Message: err.Error()}
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		res := CheckResult{Message: err.Error()}
		// A failed CheckRedirect still returns the redirect response, body closed.
		if resp != nil {
			res.StatusCode = resp.StatusCode
		}
		return res
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode != http.StatusOK {
		return CheckResult{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
		}
	}
	return CheckResult{Success: true, StatusCode: resp.StatusCode}
}
