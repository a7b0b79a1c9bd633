package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points every XDG dir at a temp dir and blanks the env overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	for _, key := range []string{
		"NEXT_PUBLIC_BACKEND_BASE_URL",
		"TODO_API_BASE_URL",
		"TODO_FONT",
		"TODO_REQUEST_TIMEOUT",
		"TODO_PREFS_PATH",
		"TODO_LOG_LEVEL",
		"TODO_LOG_ENCODING",
		"TODO_LOG_PATH",
		"TODO_SERVER_ADDR",
		"TODO_SERVER_BASE_PATH",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.Font != "inter" {
		t.Errorf("Font = %q", cfg.Font)
	}
	if want := filepath.Join(dir, "data", AppName, "prefs.db"); cfg.PrefsPath != want {
		t.Errorf("PrefsPath = %q, want %q", cfg.PrefsPath, want)
	}
	if want := filepath.Join(dir, "state", AppName, "todo.log"); cfg.Log.Path != want {
		t.Errorf("Log.Path = %q, want %q", cfg.Log.Path, want)
	}
	if cfg.File != "" {
		t.Errorf("File = %q, expected no config file", cfg.File)
	}
	if d, _ := cfg.Timeout(); d != 0 {
		t.Errorf("default timeout = %v, want none", d)
	}
}

func TestLoadPriority(t *testing.T) {
	dir := isolate(t)

	configPath := filepath.Join(dir, "config", AppName, ConfigFile)
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		t.Fatal(err)
	}
	content := `
base_url = "http://files.example:8080/api/todo/"
font = "caveat"
request_timeout = "2s"

[log]
level = "debug"

[server]
base_path = "api"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.File != configPath {
		t.Errorf("File = %q, want %q", cfg.File, configPath)
	}
	if cfg.BaseURL != "http://files.example:8080/api/todo" {
		t.Errorf("BaseURL = %q (trailing slash should be trimmed)", cfg.BaseURL)
	}
	if cfg.Font != "caveat" || cfg.Log.Level != "debug" {
		t.Errorf("file values not applied: font=%q level=%q", cfg.Font, cfg.Log.Level)
	}
	if cfg.Log.Encoding != "json" {
		t.Errorf("unset file value should keep default, got %q", cfg.Log.Encoding)
	}
	if cfg.Server.BasePath != "/api" {
		t.Errorf("BasePath = %q, want /api", cfg.Server.BasePath)
	}
	if d, _ := cfg.Timeout(); d != 2*time.Second {
		t.Errorf("timeout = %v", d)
	}

	// Environment beats the file.
	t.Setenv("NEXT_PUBLIC_BACKEND_BASE_URL", "http://legacy:3000/todo")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "http://legacy:3000/todo" {
		t.Errorf("legacy env not applied: %q", cfg.BaseURL)
	}

	t.Setenv("TODO_API_BASE_URL", "https://todo.example/items")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://todo.example/items" {
		t.Errorf("TODO_API_BASE_URL should win, got %q", cfg.BaseURL)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestFinalizeValidation(t *testing.T) {
	isolate(t)

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad scheme", func(c *Config) { c.BaseURL = "ftp://host/todo" }, "scheme"},
		{"no host", func(c *Config) { c.BaseURL = "http:///todo" }, "missing host"},
		{"bad timeout", func(c *Config) { c.RequestTimeout = "soon" }, "request timeout"},
		{"negative timeout", func(c *Config) { c.RequestTimeout = "-1s" }, "negative"},
		{"root base path", func(c *Config) { c.Server.BasePath = "/" }, "base path"},
		{"empty url falls back", func(c *Config) { c.BaseURL = "  " }, ""},
		{"seconds timeout", func(c *Config) { c.RequestTimeout = "5" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Finalize()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
