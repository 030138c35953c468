package tasks

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"taskboard-backend/internal/db"
)

// SQLStore persists tasks through database/sql. It speaks both Postgres
// and SQLite; queries are written with ? placeholders and rebound.
type SQLStore struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewSQLStore(dbx *sql.DB, dialect db.Dialect) *SQLStore {
	return &SQLStore{db: dbx, dialect: dialect}
}

const selectTask = `SELECT id, title, description, completed, created_at, updated_at FROM tasks`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (Task, error) {
	var (
		t    Task
		desc sql.NullString
	)
	if err := row.Scan(&t.ID, &t.Title, &desc, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return Task{}, err
	}
	if desc.Valid {
		d := desc.String
		t.Description = &d
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}

func (s *SQLStore) q(query string) string {
	return db.Rebind(s.dialect, query)
}

func (s *SQLStore) List(ctx context.Context) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx, selectTask+` ORDER BY id`)
	if err != nil {
		return nil, storeErr("list", err)
	}
	defer rows.Close()

	result := make([]Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, storeErr("list", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list", err)
	}
	return result, nil
}

func (s *SQLStore) Get(ctx context.Context, id int64) (Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, s.q(selectTask+` WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, &NotFoundError{ID: id}
	}
	if err != nil {
		return Task{}, storeErr("get", err)
	}
	return t, nil
}

func (s *SQLStore) Create(ctx context.Context, title string, description *string) (Task, error) {
	valid, err := validateTitle(Some(title))
	if err != nil {
		return Task{}, err
	}

	ts := now()
	t := Task{
		Title:       valid,
		Description: copyString(description),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	const insert = `INSERT INTO tasks (title, description, completed, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	args := []any{t.Title, nullString(t.Description), false, ts, ts}

	if s.dialect == db.Postgres {
		err = s.db.QueryRowContext(ctx, s.q(insert+` RETURNING id`), args...).Scan(&t.ID)
	} else {
		var res sql.Result
		res, err = s.db.ExecContext(ctx, insert, args...)
		if err == nil {
			t.ID, err = res.LastInsertId()
		}
	}
	if err != nil {
		return Task{}, storeErr("create", mapConstraint(err))
	}
	return t, nil
}

func (s *SQLStore) Update(ctx context.Context, id int64, patch Patch) (Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Task{}, storeErr("update", err)
	}
	defer tx.Rollback()

	lock := ""
	if s.dialect == db.Postgres {
		lock = ` FOR UPDATE`
	}
	cur, err := scanTask(tx.QueryRowContext(ctx, s.q(selectTask+` WHERE id = ?`+lock), id))
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, &NotFoundError{ID: id}
	}
	if err != nil {
		return Task{}, storeErr("update", err)
	}

	next, err := patch.Apply(cur)
	if err != nil {
		return Task{}, err
	}
	next.UpdatedAt = nextUpdatedAt(cur.UpdatedAt)

	_, err = tx.ExecContext(ctx, s.q(`
		UPDATE tasks
		SET title = ?, description = ?, completed = ?, updated_at = ?
		WHERE id = ?
	`), next.Title, nullString(next.Description), next.Completed, next.UpdatedAt, id)
	if err != nil {
		return Task{}, storeErr("update", mapConstraint(err))
	}
	if err := tx.Commit(); err != nil {
		return Task{}, storeErr("update", err)
	}
	return next, nil
}

func (s *SQLStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM tasks WHERE id = ?`), id)
	if err != nil {
		return storeErr("delete", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storeErr("delete", err)
	}
	if affected == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return storeErr("ping", s.db.PingContext(ctx))
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// mapConstraint turns the title CHECK violation into a ValidationError.
func mapConstraint(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23514" {
		return &ValidationError{Field: "title", Reason: "is required"}
	}
	return err
}
