package tasks

import (
	"context"
	"strings"
	"time"
)

// Store persists tasks. Implementations must be safe for concurrent use.
type Store interface {
	List(ctx context.Context) ([]Task, error)
	Get(ctx context.Context, id int64) (Task, error)
	Create(ctx context.Context, title string, description *string) (Task, error)
	Update(ctx context.Context, id int64, patch Patch) (Task, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

// Postgres keeps microseconds, so every store truncates to that precision
// and values compare equal after a round-trip.
const timePrecision = time.Microsecond

func now() time.Time {
	return time.Now().UTC().Truncate(timePrecision)
}

// nextUpdatedAt returns a timestamp strictly after prev.
func nextUpdatedAt(prev time.Time) time.Time {
	t := now()
	if !t.After(prev) {
		t = prev.Add(timePrecision)
	}
	return t
}

func validateTitle(title Optional[string]) (string, error) {
	if !title.Set || title.Null || strings.TrimSpace(title.Value) == "" {
		return "", &ValidationError{Field: "title", Reason: "is required"}
	}
	return title.Value, nil
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
