package notify

import (
	"strings"
	"testing"

	"github.com/hamed0406/alivemon/internal/domain"
)

func TestFailureMessage(t *testing.T) {
	msg := testApp.FailureMessage(domain.Outcome{
		URL:      "https://example.com/health",
		Error:    "dial tcp: connection refused",
		DNSClass: "RESOLVES",
		Attempts: 3,
	})

	if !strings.HasPrefix(msg.Subject, "<alivemon>") {
		t.Fatalf("subject should carry the app tag: %q", msg.Subject)
	}
	for _, want := range []string{
		"URL: https://example.com/health",
		"HTTP status code: N/A",
		"connection refused",
		"DNS: RESOLVES",
		"Administrators",
		"AppVersion: 1.2.0",
	} {
		if !strings.Contains(msg.Body, want) {
			t.Fatalf("body missing %q:\n%s", want, msg.Body)
		}
	}
}

func TestFailureMessage_Deterministic(t *testing.T) {
	o := domain.Outcome{URL: "https://example.com", StatusCode: 503, Attempts: 3}
	a, b := testApp.FailureMessage(o), testApp.FailureMessage(o)
	if a != b {
		t.Fatalf("same outcome rendered differently")
	}
	if !strings.Contains(a.Body, "HTTP status code: 503") {
		t.Fatalf("status missing:\n%s", a.Body)
	}
}

func TestHeartbeatMessage(t *testing.T) {
	msg := testApp.HeartbeatMessage()
	if !strings.HasPrefix(msg.Subject, "<alivemon>") || !strings.Contains(msg.Body, "running normally") {
		t.Fatalf("unexpected heartbeat: %+v", msg)
	}
}
