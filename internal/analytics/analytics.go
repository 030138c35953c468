// Package analytics records an append-only activity log of task mutations.
package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// Event names written by the task handlers.
const (
	TaskCreated     = "task_created"
	TaskUpdated     = "task_updated"
	TaskCompleted   = "task_completed"
	TaskUncompleted = "task_uncompleted"
	TaskDeleted     = "task_deleted"
)

// Envelope is what we store with every event.
type Envelope struct {
	SessionID      string
	Platform       string
	AppVersion     string
	SourceEventKey string
}

// FromRequest extracts envelope fields from request headers.
func FromRequest(r *http.Request) Envelope {
	platform := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Platform")))
	switch platform {
	case "web", "ios", "android", "cli":
	default:
		platform = "unknown"
	}

	return Envelope{
		SessionID:      strings.TrimSpace(r.Header.Get("X-Session-Id")),
		Platform:       platform,
		AppVersion:     strings.TrimSpace(r.Header.Get("X-App-Version")),
		SourceEventKey: SourceEventKeyFromRequest(r),
	}
}

// SourceEventKeyFromRequest returns the client idempotency key, if any.
// A duplicate key makes the insert a no-op.
func SourceEventKeyFromRequest(r *http.Request) string {
	k := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if k != "" {
		return k
	}
	return strings.TrimSpace(r.Header.Get("X-Source-Event-Key"))
}

type Event struct {
	ID             int64           `json:"id"`
	Name           string          `json:"eventName"`
	Time           time.Time       `json:"eventTime"`
	TaskID         int64           `json:"taskId"`
	SessionID      string          `json:"sessionId,omitempty"`
	Platform       string          `json:"platform"`
	AppVersion     string          `json:"appVersion,omitempty"`
	SourceEventKey string          `json:"sourceEventKey,omitempty"`
	Properties     json.RawMessage `json:"properties"`
}

// Recorder stores and reads activity events.
type Recorder interface {
	Log(ctx context.Context, env Envelope, name string, taskID int64, props any) error
	ForTask(ctx context.Context, taskID int64) ([]Event, error)
}

func newEvent(env Envelope, name string, taskID int64, props any) (Event, error) {
	b, err := json.Marshal(props)
	if err != nil {
		return Event{}, err
	}
	if props == nil {
		b = []byte("{}")
	}
	platform := env.Platform
	if platform == "" {
		platform = "unknown"
	}
	return Event{
		Name:           name,
		Time:           time.Now().UTC().Truncate(time.Microsecond),
		TaskID:         taskID,
		SessionID:      env.SessionID,
		Platform:       platform,
		AppVersion:     env.AppVersion,
		SourceEventKey: env.SourceEventKey,
		Properties:     b,
	}, nil
}
