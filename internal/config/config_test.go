package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskboard-backend/internal/config"
	"taskboard-backend/internal/db"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TASKS_CONFIG", "TASKS_ADDR", "PORT", "TASKS_DB_DRIVER", "DB_HOST", "DB_PORT",
		"DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE", "TASKS_SQLITE_PATH",
		"TASKS_LOG_LEVEL", "TASKS_LOG_FORMAT", "TASKS_AUTH_SECRET", "TASKS_STRICT_ERRORS",
		"TASKS_CORS_ORIGINS", "TASKS_OTEL_ENABLED", "TASKS_OTEL_EXPORTER", "TASKS_OTEL_ENDPOINT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":3000" {
		t.Fatalf("addr=%q", cfg.Addr)
	}
	if cfg.Dialect() != db.Postgres {
		t.Fatalf("dialect=%q", cfg.Dialect())
	}
	if cfg.StrictErrors {
		t.Fatal("strict errors should default to off")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("cors=%v", cfg.CORSOrigins)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "tasks")
	t.Setenv("DB_NAME", "taskboard")
	t.Setenv("TASKS_STRICT_ERRORS", "true")
	t.Setenv("TASKS_CORS_ORIGINS", "http://localhost:5173, https://board.example.com")
	t.Setenv("PORT", "8081")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" {
		t.Fatalf("addr=%q", cfg.Addr)
	}
	if !cfg.StrictErrors {
		t.Fatal("expected strict errors")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://board.example.com" {
		t.Fatalf("cors=%v", cfg.CORSOrigins)
	}
	dsn := cfg.ConnString()
	for _, part := range []string{"host=db.internal", "port=6543", "user=tasks", "dbname=taskboard", "sslmode=disable"} {
		if !strings.Contains(dsn, part) {
			t.Fatalf("dsn %q missing %q", dsn, part)
		}
	}
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "taskboard.yaml")
	raw := "addr: \":9000\"\ndb_driver: sqlite\nsqlite_path: /tmp/tasks.db\nlog_level: debug\notel:\n  enabled: true\n  exporter: stdout\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TASKS_CONFIG", path)
	t.Setenv("TASKS_LOG_LEVEL", "warn")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9000" {
		t.Fatalf("addr=%q", cfg.Addr)
	}
	if cfg.Dialect() != db.SQLite {
		t.Fatalf("dialect=%q", cfg.Dialect())
	}
	if cfg.ConnString() != db.SQLiteDSN("/tmp/tasks.db") {
		t.Fatalf("dsn=%q", cfg.ConnString())
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("env should win over file, log_level=%q", cfg.LogLevel)
	}
	if !cfg.OTel.Enabled || cfg.OTel.Exporter != "stdout" {
		t.Fatalf("otel=%+v", cfg.OTel)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"TASKS_DB_DRIVER": "oracle"}},
		{"bad port", map[string]string{"DB_PORT": "five"}},
		{"bad bool", map[string]string{"TASKS_STRICT_ERRORS": "maybe"}},
		{"missing file", map[string]string{"TASKS_CONFIG": "/nonexistent/taskboard.yaml"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := config.Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
