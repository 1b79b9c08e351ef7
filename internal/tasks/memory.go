package tasks

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Fasscorp/FassimoV3/internal/logging"
)

// MemoryStore keeps tasks in insertion order in process memory. It is the
// default backend for a single prototype session; the SQLite-backed store
// replaces it when persistence is enabled.
type MemoryStore struct {
	mu    sync.Mutex
	items []Task
}

// NewMemoryStore creates an empty in-memory task store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Add creates a task with a fresh opaque id and completed=false.
func (m *MemoryStore) Add(description string, priority Priority, due *time.Time) (Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := Task{
		ID:          uuid.NewString(),
		Description: description,
		Priority:    priority,
		DueDate:     due,
	}
	m.items = append(m.items, t)
	logging.Tasks("Added task %s: %q priority=%s", t.ID, description, priority)
	return t, nil
}

// List returns all tasks in insertion order.
func (m *MemoryStore) List() ([]Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Task, len(m.items))
	copy(out, m.items)
	return out, nil
}

// Update applies a partial update. Returns false if the id is unknown.
func (m *MemoryStore) Update(id string, p Patch) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.items {
		if m.items[i].ID != id {
			continue
		}
		applyPatch(&m.items[i], p)
		logging.Tasks("Updated task %s", id)
		return true, nil
	}
	logging.Get(logging.CategoryTasks).Warn("Update for unknown task id %s", id)
	return false, nil
}

func applyPatch(t *Task, p Patch) {
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.ClearDue {
		t.DueDate = nil
	} else if p.DueDate != nil {
		due := *p.DueDate
		t.DueDate = &due
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}
