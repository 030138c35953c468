package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"taskboard-backend/internal/db"
)

type SQLRecorder struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewSQLRecorder(dbx *sql.DB, dialect db.Dialect) *SQLRecorder {
	return &SQLRecorder{db: dbx, dialect: dialect}
}

// Log inserts one event. If the source event key duplicates, nothing is written.
func (r *SQLRecorder) Log(ctx context.Context, env Envelope, name string, taskID int64, props any) error {
	if name == "" {
		return nil
	}
	ev, err := newEvent(env, name, taskID, props)
	if err != nil {
		return fmt.Errorf("marshal event props: %w", err)
	}

	propsParam := "?"
	if r.dialect == db.Postgres {
		propsParam = "?::jsonb"
	}
	q := `
		INSERT INTO task_events (
			event_name, event_time, task_id, session_id,
			platform, app_version, source_event_key, properties
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ` + propsParam + `)
		ON CONFLICT (source_event_key) DO NOTHING
	`
	_, err = r.db.ExecContext(ctx, db.Rebind(r.dialect, q),
		ev.Name, ev.Time, ev.TaskID, nullIfEmpty(ev.SessionID),
		ev.Platform, ev.AppVersion, nullIfEmpty(ev.SourceEventKey),
		string(ev.Properties),
	)
	if err != nil {
		return fmt.Errorf("insert event %s: %w", name, err)
	}
	return nil
}

func (r *SQLRecorder) ForTask(ctx context.Context, taskID int64) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, db.Rebind(r.dialect, `
		SELECT id, event_name, event_time, task_id,
			COALESCE(session_id, ''), platform, app_version,
			COALESCE(source_event_key, ''), properties
		FROM task_events
		WHERE task_id = ?
		ORDER BY id
	`), taskID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	out := make([]Event, 0)
	for rows.Next() {
		var (
			ev    Event
			props []byte
		)
		if err := rows.Scan(&ev.ID, &ev.Name, &ev.Time, &ev.TaskID,
			&ev.SessionID, &ev.Platform, &ev.AppVersion,
			&ev.SourceEventKey, &props); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Time = ev.Time.UTC()
		ev.Properties = append([]byte(nil), props...)
		out = append(out, ev)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
