package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "estatewatch.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ESTATEWATCH_REFERENCE", "78759")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.MaxMiles != DefaultMaxMiles {
		t.Errorf("MaxMiles = %v", cfg.MaxMiles)
	}
	if cfg.MaxPages != 5 || cfg.RetryAttempts != 3 {
		t.Errorf("MaxPages = %d, RetryAttempts = %d", cfg.MaxPages, cfg.RetryAttempts)
	}
	if cfg.TransportConfigured() {
		t.Error("no transport should be configured by default")
	}
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	path := writeConfigFile(t, strings.Join([]string{
		"reference: Austin, TX",
		"max_miles: 10",
		"max_pages: 2",
		"recipients:",
		"  - file@example.com",
	}, "\n"))
	t.Setenv("ESTATEWATCH_MAX_MILES", "25")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Reference != "Austin, TX" {
		t.Errorf("Reference = %q", cfg.Reference)
	}
	if cfg.MaxMiles != 25 {
		t.Errorf("env should override the file, MaxMiles = %v", cfg.MaxMiles)
	}
	if cfg.MaxPages != 2 {
		t.Errorf("MaxPages = %d", cfg.MaxPages)
	}
	if len(cfg.Recipients) != 1 || cfg.Recipients[0] != "file@example.com" {
		t.Errorf("Recipients = %v", cfg.Recipients)
	}
}

func TestLoadConfigFileFromEnv(t *testing.T) {
	path := writeConfigFile(t, "reference: 78759\n")
	t.Setenv("ESTATEWATCH_CONFIG", path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Reference != "78759" {
		t.Errorf("Reference = %q", cfg.Reference)
	}
}

func TestLoadMissingReference(t *testing.T) {
	t.Setenv("ESTATEWATCH_REFERENCE", "")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error without a reference location")
	}
}

func TestLoadRejectsNonPositiveMaxMiles(t *testing.T) {
	t.Setenv("ESTATEWATCH_REFERENCE", "78759")
	t.Setenv("ESTATEWATCH_MAX_MILES", "0")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for max miles of zero")
	}
}

func TestLoadRejectsEmptyRecipientList(t *testing.T) {
	t.Setenv("ESTATEWATCH_REFERENCE", "78759")
	t.Setenv("ESTATEWATCH_RECIPIENTS", " , ,")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for a set but empty recipient list")
	}
}

func TestLoadRejectsTransportWithoutRecipients(t *testing.T) {
	t.Setenv("ESTATEWATCH_REFERENCE", "78759")
	t.Setenv("SMTP_HOST", "relay.example.com")
	t.Setenv("SMTP_FROM", "alerts@example.com")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for transport without recipients")
	}
}

func TestLoadTransportSelection(t *testing.T) {
	t.Setenv("ESTATEWATCH_REFERENCE", "78759")
	t.Setenv("ESTATEWATCH_RECIPIENTS", "a@example.com, b@example.com")
	t.Setenv("SMTP_HOST", "relay.example.com")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("SMTP_FROM", "alerts@example.com")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.SMTPConfigured() {
		t.Error("SMTP should be configured")
	}
	if cfg.SMSConfigured() {
		t.Error("SMS should not be configured")
	}
	if len(cfg.Recipients) != 2 {
		t.Errorf("Recipients = %v", cfg.Recipients)
	}
	if cfg.SMTP.Port != 587 {
		t.Errorf("SMTP.Port = %d", cfg.SMTP.Port)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"  ", nil},
		{"a@example.com", []string{"a@example.com"}},
		{"a@example.com, b@example.com", []string{"a@example.com", "b@example.com"}},
		{",a@example.com,,", []string{"a@example.com"}},
	}
	for _, tt := range tests {
		got := SplitList(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("SplitList(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("SplitList(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}
