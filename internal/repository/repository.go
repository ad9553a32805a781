// Package repository defines the task store contract shared by the
// MongoDB, SQLite and Badger backends.
package repository

import (
	"context"

	"task-list/internal/domain"
	"task-list/internal/errors"
)

// CollectionName is the name of the task collection or table in every backend.
const CollectionName = "task"

// Repository is the task store. Implementations are safe for concurrent use.
//
// Absence is never an error: FindTask returns nil, nil and UpdateTask and
// DeleteTask are no-ops for unknown identifiers. Every operation after Close
// fails with a precondition error.
type Repository interface {
	// InsertTask stores a new task and assigns its ID. A name that is already
	// taken yields a conflict error carrying the name.
	InsertTask(ctx context.Context, task *domain.Task) error

	// UpdateTask replaces the whole document stored under task.ID.
	UpdateTask(ctx context.Context, task *domain.Task) error

	// ListTasks returns every task in no particular order.
	ListTasks(ctx context.Context) ([]*domain.Task, error)

	// FindTask returns the task with the given ID, or nil when there is none.
	FindTask(ctx context.Context, id string) (*domain.Task, error)

	// DeleteTask removes the task with the given ID.
	DeleteTask(ctx context.Context, id string) error

	Close() error
}

// NewClosedError is returned by a backend used after Close.
func NewClosedError() error {
	return errors.NewPreconditionError("task store", "connection is closed")
}
