package domain

import "time"

// Task represents a to-do item.
// This is a pure domain model without database-specific concerns.
//
// ID is empty until the store assigns one. Checked is nil while the task is not
// done; any non-nil marker means done. OverDue is a cached projection of the
// overdue predicate from the last reconciliation and may be stale.
type Task struct {
	ID      string  `json:"id,omitempty"`
	Name    string  `json:"name"`
	Checked *string `json:"checked"`
	DueDate string  `json:"dueDate"`
	OverDue bool    `json:"overDue"`
}

// NewTask creates a transient Task. An empty id yields an unsaved task.
func NewTask(name string, checked *string, dueDate string, id string) *Task {
	return &Task{
		ID:      id,
		Name:    name,
		Checked: checked,
		DueDate: dueDate,
	}
}

// Clone returns a deep copy that shares no memory with t.
func (t Task) Clone() Task {
	c := t
	if t.Checked != nil {
		marker := *t.Checked
		c.Checked = &marker
	}
	return c
}

// IsChecked reports whether the task carries a completion marker.
func (t Task) IsChecked() bool {
	return t.Checked != nil
}

// IsPersisted reports whether the task has a store-assigned identifier.
func (t Task) IsPersisted() bool {
	return t.ID != ""
}

// Overdue evaluates the overdue predicate against the current time.
func (t Task) Overdue() bool {
	return IsOverdue(t.Checked, t.DueDate)
}

// OverdueAt evaluates the overdue predicate against now.
func (t Task) OverdueAt(now time.Time) bool {
	return IsOverdueAt(t.Checked, t.DueDate, now)
}

// String returns the task name for display purposes.
func (t Task) String() string {
	return t.Name
}

// CloneAll copies a snapshot so the copy can be handed to another goroutine.
func CloneAll(tasks []*Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t == nil {
			continue
		}
		out = append(out, t.Clone())
	}
	return out
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
