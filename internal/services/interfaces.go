package services

import (
	"context"

	"task-list/internal/domain"
)

// TaskService defines the task use cases the web handlers and CLI call
type TaskService interface {
	// ListTasks returns every stored task, in no guaranteed order
	ListTasks(ctx context.Context) ([]*domain.Task, error)

	// GetTask returns the task with the given ID, or nil when there is none
	GetTask(ctx context.Context, id string) (*domain.Task, error)

	// CreateTask inserts a new task; a taken name is a conflict error
	CreateTask(ctx context.Context, input TaskInput) (*domain.Task, error)

	// UpdateTask replaces the editable fields of an existing task.
	// An unknown ID is a no-op and returns nil.
	UpdateTask(ctx context.Context, id string, input TaskInput) (*domain.Task, error)

	// DeleteTask removes a task; deleting an unknown ID is not an error
	DeleteTask(ctx context.Context, id string) error
}

// TaskInput carries the user-editable fields of a task
type TaskInput struct {
	Name    string  `json:"name"`
	Checked *string `json:"checked"`
	DueDate string  `json:"dueDate"`
}
