package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestOutcome_StatusText(t *testing.T) {
	if got := (Outcome{}).StatusText(); got != NoStatus {
		t.Fatalf("want %q for missing status, got %q", NoStatus, got)
	}
	if got := (Outcome{StatusCode: 503}).StatusText(); got != "503" {
		t.Fatalf("want 503, got %q", got)
	}
}

func TestCredentials_SecretNotSerialized(t *testing.T) {
	b, err := json.Marshal(Credentials{Address: "ops@example.com", Secret: "hunter2"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "hunter2") {
		t.Fatalf("secret leaked into JSON: %s", b)
	}
}
