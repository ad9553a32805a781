package services

import (
	"context"

	"task-list/internal/domain"
	"task-list/internal/errors"
	"task-list/internal/logging"
	"task-list/internal/repository"
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	store repository.Provider
}

// NewTaskService creates a new TaskService instance
func NewTaskService(store repository.Provider) TaskService {
	return &taskServiceImpl{store: store}
}

// repo resolves the connected store, failing fast when there is none
func (s *taskServiceImpl) repo(ctx context.Context) (repository.Repository, error) {
	if s.store == nil {
		return nil, errors.NewPreconditionError("task store", "no store handle configured")
	}
	return s.store.Store(ctx)
}

// ListTasks returns all tasks
func (s *taskServiceImpl) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	repo, err := s.repo(ctx)
	if err != nil {
		return nil, err
	}
	return repo.ListTasks(ctx)
}

// GetTask retrieves a task by its ID
func (s *taskServiceImpl) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	repo, err := s.repo(ctx)
	if err != nil {
		return nil, err
	}
	return repo.FindTask(ctx, id)
}

// CreateTask creates a new task from the submitted form values
func (s *taskServiceImpl) CreateTask(ctx context.Context, input TaskInput) (*domain.Task, error) {
	repo, err := s.repo(ctx)
	if err != nil {
		return nil, err
	}

	task := domain.NewTask(input.Name, input.Checked, input.DueDate, "")
	if err := repo.InsertTask(ctx, task); err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Debug().Str("task_id", task.ID).Str("name", task.Name).Msg("task created")
	return task, nil
}

// UpdateTask loads the current document and replaces it with the new values.
// OverDue is carried forward unchanged; only reconciliation ever sets it.
func (s *taskServiceImpl) UpdateTask(ctx context.Context, id string, input TaskInput) (*domain.Task, error) {
	repo, err := s.repo(ctx)
	if err != nil {
		return nil, err
	}

	current, err := repo.FindTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		logging.Ctx(ctx).Debug().Str("task_id", id).Msg("update of unknown task ignored")
		return nil, nil
	}

	updated := domain.NewTask(input.Name, input.Checked, input.DueDate, current.ID)
	updated.OverDue = current.OverDue

	if err := repo.UpdateTask(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTask removes a task by ID
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id string) error {
	repo, err := s.repo(ctx)
	if err != nil {
		return err
	}
	return repo.DeleteTask(ctx, id)
}
