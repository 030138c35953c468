package tasks

import (
	"bytes"
	"encoding/json"
	"time"
)

type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Optional is a JSON field that remembers whether it was present in the
// payload and whether it was an explicit null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// IsZero lets encoders with omitzero drop absent fields.
func (o Optional[T]) IsZero() bool {
	return !o.Set
}

// Patch is the body of PUT /tasks/{id}. Absent keys leave the stored value
// untouched; an explicit null clears description and is rejected for
// title and completed.
type Patch struct {
	Title       Optional[string] `json:"title,omitzero"`
	Description Optional[string] `json:"description,omitzero"`
	Completed   Optional[bool]   `json:"completed,omitzero"`
}

func (p Patch) Empty() bool {
	return !p.Title.Set && !p.Description.Set && !p.Completed.Set
}

// Apply merges the patch into t. It does not touch timestamps.
func (p Patch) Apply(t Task) (Task, error) {
	if p.Title.Set {
		title, err := validateTitle(p.Title)
		if err != nil {
			return Task{}, err
		}
		t.Title = title
	}
	if p.Description.Set {
		if p.Description.Null {
			t.Description = nil
		} else {
			d := p.Description.Value
			t.Description = &d
		}
	}
	if p.Completed.Set {
		if p.Completed.Null {
			return Task{}, &ValidationError{Field: "completed", Reason: "must be a boolean"}
		}
		t.Completed = p.Completed.Value
	}
	return t, nil
}
