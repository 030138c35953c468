package tasks

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps tasks in a map. Ids come from a counter and are never
// reused after a delete.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	tasks  map[int64]Task
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tasks: make(map[int64]Task)}
}

func (s *MemoryStore) List(_ context.Context) ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, clone(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id int64) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, &NotFoundError{ID: id}
	}
	return clone(t), nil
}

func (s *MemoryStore) Create(_ context.Context, title string, description *string) (Task, error) {
	valid, err := validateTitle(Some(title))
	if err != nil {
		return Task{}, err
	}

	ts := now()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	t := Task{
		ID:          s.nextID,
		Title:       valid,
		Description: copyString(description),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	s.tasks[t.ID] = t
	return clone(t), nil
}

func (s *MemoryStore) Update(_ context.Context, id int64, patch Patch) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.tasks[id]
	if !ok {
		return Task{}, &NotFoundError{ID: id}
	}
	next, err := patch.Apply(clone(cur))
	if err != nil {
		return Task{}, err
	}
	next.UpdatedAt = nextUpdatedAt(cur.UpdatedAt)
	s.tasks[id] = next
	return clone(next), nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return &NotFoundError{ID: id}
	}
	delete(s.tasks, id)
	return nil
}

func (s *MemoryStore) Ping(_ context.Context) error { return nil }

func clone(t Task) Task {
	t.Description = copyString(t.Description)
	return t
}
