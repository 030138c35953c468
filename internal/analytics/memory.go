package analytics

import (
	"context"
	"sync"
)

// MemoryRecorder keeps events in process. Used by tests and the memory driver.
type MemoryRecorder struct {
	mu     sync.Mutex
	nextID int64
	events []Event
	keys   map[string]struct{}
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{keys: make(map[string]struct{})}
}

func (m *MemoryRecorder) Log(_ context.Context, env Envelope, name string, taskID int64, props any) error {
	if name == "" {
		return nil
	}
	ev, err := newEvent(env, name, taskID, props)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ev.SourceEventKey != "" {
		if _, dup := m.keys[ev.SourceEventKey]; dup {
			return nil
		}
		m.keys[ev.SourceEventKey] = struct{}{}
	}
	m.nextID++
	ev.ID = m.nextID
	m.events = append(m.events, ev)
	return nil
}

func (m *MemoryRecorder) ForTask(_ context.Context, taskID int64) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Event, 0)
	for _, ev := range m.events {
		if ev.TaskID == taskID {
			out = append(out, ev)
		}
	}
	return out, nil
}

// Events returns a copy of everything recorded so far.
func (m *MemoryRecorder) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}
