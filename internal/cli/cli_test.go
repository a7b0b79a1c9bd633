package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points every config source at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	for _, k := range []string{"TODO_API_BASE_URL", "NEXT_PUBLIC_BACKEND_BASE_URL", "TODO_FONT", "TODO_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestVersionCommand(t *testing.T) {
	root := NewRootCmd(BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "todo 1.2.3 (commit: abc, built: today)" {
		t.Fatalf("output = %q", got)
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("TODO_API_BASE_URL", "http://env.example/todo")
	t.Setenv("TODO_FONT", "caveat")

	app := &App{BaseURL: "http://flag.example/tasks/", LogLevel: "debug"}
	cfg, err := loadConfig(app)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.BaseURL != "http://flag.example/tasks" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Font != "caveat" {
		t.Errorf("Font = %q, want env value", cfg.Font)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestInvalidBaseURLFlag(t *testing.T) {
	isolate(t)
	if _, err := loadConfig(&App{BaseURL: "ftp://nope"}); err == nil {
		t.Fatal("expected error for ftp base url")
	}
}

func TestSampleTasksNewestLast(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tasks := sampleTasks(now)
	if len(tasks) == 0 {
		t.Fatal("no sample tasks")
	}
	for i := 1; i < len(tasks); i++ {
		if !tasks[i].CreatedAt.After(tasks[i-1].CreatedAt) {
			t.Fatalf("sample tasks not in creation order")
		}
	}
}
