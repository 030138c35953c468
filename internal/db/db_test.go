package db

import (
	"context"
	"path/filepath"
	"testing"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{"", Postgres, false},
		{"postgres", Postgres, false},
		{"PostgreSQL", Postgres, false},
		{"sqlite", SQLite, false},
		{" sqlite3 ", SQLite, false},
		{"mysql", "", true},
	}
	for _, tc := range tests {
		got, err := ParseDialect(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseDialect(%q) err=%v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseDialect(%q)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestRebind(t *testing.T) {
	q := "UPDATE tasks SET title = ?, completed = ? WHERE id = ?"
	if got := Rebind(SQLite, q); got != q {
		t.Fatalf("sqlite should keep ?: %q", got)
	}
	want := "UPDATE tasks SET title = $1, completed = $2 WHERE id = $3"
	if got := Rebind(Postgres, q); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestMigrateSQLiteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dbx, err := Connect(ctx, SQLite, SQLiteDSN(filepath.Join(t.TempDir(), "m.db")))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer dbx.Close()

	for i := 0; i < 2; i++ {
		if err := Migrate(ctx, dbx, SQLite); err != nil {
			t.Fatalf("migrate run %d: %v", i+1, err)
		}
	}

	var n int
	err = dbx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('tasks', 'task_events')`).Scan(&n)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 tables, got %d", n)
	}

	if _, err := dbx.ExecContext(ctx,
		`INSERT INTO tasks (title, completed, created_at, updated_at) VALUES ('  ', 0, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`); err == nil {
		t.Fatal("blank title should violate the CHECK constraint")
	}
}

func TestMigrateUnknownDialect(t *testing.T) {
	if err := Migrate(context.Background(), nil, Dialect("oracle")); err == nil {
		t.Fatal("expected error")
	}
}
