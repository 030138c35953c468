package db

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = map[Dialect][]string{
	Postgres: {
		`CREATE TABLE IF NOT EXISTS tasks (
			id          BIGSERIAL PRIMARY KEY,
			title       TEXT NOT NULL CHECK (btrim(title) <> ''),
			description TEXT NULL,
			completed   BOOLEAN NOT NULL DEFAULT FALSE,
			created_at  TIMESTAMPTZ NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL,
			CHECK (updated_at >= created_at)
		)`,
		`CREATE TABLE IF NOT EXISTS task_events (
			id               BIGSERIAL PRIMARY KEY,
			event_name       TEXT NOT NULL,
			event_time       TIMESTAMPTZ NOT NULL,
			task_id          BIGINT NULL,
			session_id       TEXT NULL,
			platform         TEXT NOT NULL,
			app_version      TEXT NOT NULL,
			source_event_key TEXT NULL UNIQUE,
			properties       JSONB NOT NULL DEFAULT '{}'::jsonb
		)`,
		`CREATE INDEX IF NOT EXISTS task_events_task_id_idx ON task_events (task_id)`,
	},
	SQLite: {
		`CREATE TABLE IF NOT EXISTS tasks (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			title       TEXT NOT NULL CHECK (trim(title) <> ''),
			description TEXT NULL,
			completed   BOOLEAN NOT NULL DEFAULT 0,
			created_at  TIMESTAMP NOT NULL,
			updated_at  TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS task_events (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			event_name       TEXT NOT NULL,
			event_time       TIMESTAMP NOT NULL,
			task_id          INTEGER NULL,
			session_id       TEXT NULL,
			platform         TEXT NOT NULL,
			app_version      TEXT NOT NULL,
			source_event_key TEXT NULL UNIQUE,
			properties       TEXT NOT NULL DEFAULT '{}'
		)`,
		`CREATE INDEX IF NOT EXISTS task_events_task_id_idx ON task_events (task_id)`,
	},
}

// Migrate creates the tables if they do not exist. Safe to run on every start.
func Migrate(ctx context.Context, dbx *sql.DB, dialect Dialect) error {
	stmts, ok := schema[dialect]
	if !ok {
		return fmt.Errorf("no schema for dialect %q", dialect)
	}
	for _, q := range stmts {
		if _, err := dbx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
