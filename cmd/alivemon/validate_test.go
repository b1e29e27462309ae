package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// executeValidateCmd runs the validate command against a settings file that
// points at sitesPath and returns captured stdout, stderr and any error.
func executeValidateCmd(t *testing.T, sitesPath string) (string, string, error) {
	t.Helper()

	dir := t.TempDir()
	settingsPath := filepath.Join(dir, "alivemon.yaml")
	settings := "sites_file: " + sitesPath + "\ncheck_interval_minutes: 5\n"
	if err := os.WriteFile(settingsPath, []byte(settings), 0o644); err != nil {
		t.Fatalf("failed to write settings file: %v", err)
	}

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	rootCmd.SetArgs([]string{"validate", "-s", settingsPath})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeSites(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "alive_mon.json")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write site document: %v", err)
	}
	return p
}

func TestRunValidate_ValidDocument(t *testing.T) {
	sites := writeSites(t, `{
  "alive_monitored_URLs": ["https://example.com", "https://example.org/health"],
  "dest_mail_addrs": ["ops@example.com"],
  "src_mail_info": {"addr": "monitor@example.com", "pass": "secret"}
}`)

	out, _, err := executeValidateCmd(t, sites)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}

	for _, phrase := range []string{
		"Config is valid!",
		"URLs:         2",
		"Recipients:   1",
		"every 5 min",
	} {
		if !strings.Contains(out, phrase) {
			t.Errorf("output missing %q\nGot: %s", phrase, out)
		}
	}
	if strings.Contains(out, "secret") {
		t.Errorf("output leaks the sender password:\n%s", out)
	}
}

func TestRunValidate_MissingFields(t *testing.T) {
	sites := writeSites(t, `{
  "alive_monitored_URLs": ["https://example.com"],
  "src_mail_info": {"addr": "monitor@example.com"}
}`)

	_, errOut, err := executeValidateCmd(t, sites)
	if err == nil {
		t.Fatal("expected error for missing fields")
	}
	for _, label := range []string{"recipient list", "sender password"} {
		if !strings.Contains(errOut, label) {
			t.Errorf("stderr missing %q\nGot: %s", label, errOut)
		}
	}
}

func TestRunValidate_NonexistentDocument(t *testing.T) {
	_, _, err := executeValidateCmd(t, filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for nonexistent site document")
	}
}
