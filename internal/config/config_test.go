package config

import (
	"os"
	"path/filepath"
	"testing"
)

// setHome points the config paths at a temp directory so tests never touch
// the real ~/.taskdeck.
func setHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadCreatesConfigOnFirstRun(t *testing.T) {
	home := setHome(t)
	t.Setenv("TASKDECK_API_URL", "")
	t.Setenv("BACKEND_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8000/api/v1" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.DefaultUserID != 1 {
		t.Errorf("DefaultUserID = %d, want 1", cfg.DefaultUserID)
	}

	if _, err := os.Stat(filepath.Join(home, ".taskdeck", "config.toml")); err != nil {
		t.Errorf("config file not created: %v", err)
	}
}

func TestLoadReadsExistingConfig(t *testing.T) {
	home := setHome(t)
	t.Setenv("TASKDECK_API_URL", "")
	t.Setenv("BACKEND_URL", "")

	dir := filepath.Join(home, ".taskdeck")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "api_base_url = \"https://deck.internal/api/v1\"\ndefault_user_id = 9\nmodel = \"gpt-5\"\nlog_level = \"debug\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://deck.internal/api/v1" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.DefaultUserID != 9 || cfg.Model != "gpt-5" || cfg.LogLevel != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestTaskdeckAPIURLOverrideWinsOutright(t *testing.T) {
	setHome(t)
	t.Setenv("TASKDECK_API_URL", "https://override.example/v2")
	t.Setenv("BACKEND_URL", "https://ignored.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://override.example/v2" {
		t.Errorf("APIBaseURL = %q, want the TASKDECK_API_URL value untouched", cfg.APIBaseURL)
	}
}

func TestBackendURLOverrideKeepsPrefix(t *testing.T) {
	setHome(t)
	t.Setenv("TASKDECK_API_URL", "")
	t.Setenv("BACKEND_URL", "https://backend.example:9000/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://backend.example:9000/api/v1" {
		t.Errorf("APIBaseURL = %q, want origin + /api/v1", cfg.APIBaseURL)
	}
}

func TestSaveRoundTrips(t *testing.T) {
	setHome(t)
	t.Setenv("TASKDECK_API_URL", "")
	t.Setenv("BACKEND_URL", "")

	if err := EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	want := &Config{
		APIBaseURL:    "http://box:8000/api/v1",
		DefaultUserID: 3,
		Model:         "fast",
		LogLevel:      "warn",
	}
	if err := Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}
