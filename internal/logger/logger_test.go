package logger

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "todo.log")

	log, closeFn, err := New(Config{Level: "debug", Encoding: "json", Path: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Debug("hello", zap.String("k", "v"))
	_ = log.Sync()
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, `"msg":"hello"`) || !strings.Contains(line, `"k":"v"`) {
		t.Errorf("unexpected log line: %s", line)
	}
	if !strings.Contains(line, `"timestamp"`) {
		t.Errorf("expected timestamp key, got: %s", line)
	}
}

func TestNewLevelFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.log")

	log, closeFn, err := New(Config{Level: "chatty", Path: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closeFn()

	if log.Core().Enabled(zap.DebugLevel) {
		t.Error("invalid level should fall back to info")
	}
	if !log.Core().Enabled(zap.InfoLevel) {
		t.Error("info should be enabled")
	}
}

func TestNewDiscard(t *testing.T) {
	log, closeFn, err := New(Config{Path: "-"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := closeFn(); err != nil {
		t.Errorf("close: %v", err)
	}
	if log.Core().Enabled(zap.ErrorLevel) {
		t.Error("discard logger should not be enabled")
	}
}

func TestRequestID(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-1")
	if got := RequestID(ctx); got != "req-1" {
		t.Errorf("RequestID = %q", got)
	}
	if got := RequestID(context.Background()); got != "" {
		t.Errorf("RequestID on empty ctx = %q", got)
	}
	if WithRequestID(ctx, nil) != nil {
		t.Error("nil base logger should stay nil")
	}
}
