package telemetry

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLogger_JSONRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info", "json")

	logger.Info("hello", "auth_secret", "s3cr3t", "header", "Bearer abc.def", "task_id", 7)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line: %v; raw=%s", err, buf.String())
	}
	if rec["auth_secret"] != "[REDACTED]" {
		t.Fatalf("auth_secret not redacted: %v", rec["auth_secret"])
	}
	if rec["header"] != "[REDACTED]" {
		t.Fatalf("bearer value not redacted: %v", rec["header"])
	}
	if rec["task_id"] != float64(7) {
		t.Fatalf("task_id=%v", rec["task_id"])
	}
	if _, ok := rec["timestamp"]; !ok {
		t.Fatalf("expected timestamp key, got %v", rec)
	}
	if rec["component"] != "taskboard-api" {
		t.Fatalf("component=%v", rec["component"])
	}
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn", "text")

	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("warn line missing: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q)=%v want %v", in, got, want)
		}
	}
}
