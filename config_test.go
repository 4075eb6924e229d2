package webhooks_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	webhooks "github.com/swhkit/webhooks"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const configYAML = `
webhooks:
  event_retention_period: 30
  svix:
    server_url: http://localhost:8071
    auth_token: file-token
`

func TestConfigFromFile(t *testing.T) {
	path := writeConfig(t, configYAML)

	w, err := webhooks.New(webhooks.WithConfigFile(path))
	if err != nil {
		t.Fatal(err)
	}
	if got := w.Config().EventRetentionPeriod; got != 30 {
		t.Errorf("retention period %d, want 30 from the file", got)
	}
}

func TestConfigFromEnvFile(t *testing.T) {
	path := writeConfig(t, configYAML)
	t.Setenv(webhooks.ConfigFileEnvVar, path)

	if _, err := webhooks.New(); err != nil {
		t.Fatal(err)
	}
}

func TestOptionsOverrideFile(t *testing.T) {
	path := writeConfig(t, configYAML)

	// An explicit token wins over the file's; the URL still comes from the
	// file, so construction succeeds.
	w, err := webhooks.New(
		webhooks.WithConfigFile(path),
		webhooks.WithAuthToken("option-token"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if w == nil {
		t.Fatal("nil client")
	}
}

func TestRetentionOptionOverridesFile(t *testing.T) {
	path := writeConfig(t, configYAML)

	// An explicit retention period wins over the file's, even when it
	// equals the default.
	w, err := webhooks.New(
		webhooks.WithConfigFile(path),
		webhooks.WithEventRetentionPeriod(webhooks.DefaultEventRetentionPeriod),
	)
	if err != nil {
		t.Fatal(err)
	}
	if got := w.Config().EventRetentionPeriod; got != webhooks.DefaultEventRetentionPeriod {
		t.Errorf("retention period %d, want %d from the option", got, webhooks.DefaultEventRetentionPeriod)
	}
}

func TestConfigFileMissing(t *testing.T) {
	_, err := webhooks.New(webhooks.WithConfigFile(filepath.Join(t.TempDir(), "nope.yml")))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestConfigIncomplete(t *testing.T) {
	path := writeConfig(t, "webhooks:\n  svix:\n    server_url: http://localhost:8071\n")

	_, err := webhooks.New(webhooks.WithConfigFile(path))
	if !errors.Is(err, webhooks.ErrMissingAuthToken) {
		t.Fatalf("got %v, want ErrMissingAuthToken", err)
	}
}
