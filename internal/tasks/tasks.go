// Package tasks implements the user-visible action item store: a minimal CRUD
// collection keyed by opaque id, plus the drafting rule that turns a completed
// onboarding interview into a follow-up task.
package tasks

import (
	"time"
)

// Priority of a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Task is one user-visible action item. ID is assigned on creation and never
// changes; tasks are never deleted, only updated.
type Task struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   bool       `json:"completed"`
}

// Patch describes a partial update. Nil fields are left untouched. ClearDue
// removes an existing due date; it wins over DueDate if both are set.
type Patch struct {
	Description *string
	Priority    *Priority
	DueDate     *time.Time
	ClearDue    bool
	Completed   *bool
}

// Store is the task collection contract. Update reports false for an unknown
// id rather than returning an error.
type Store interface {
	Add(description string, priority Priority, due *time.Time) (Task, error)
	List() ([]Task, error)
	Update(id string, p Patch) (bool, error)
}
