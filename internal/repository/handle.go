package repository

import (
	"context"
	"sync"

	"task-list/internal/errors"
)

// Provider hands out the task store to components that need it.
type Provider interface {
	// Store returns the connected store or a precondition error.
	Store(ctx context.Context) (Repository, error)
}

// Opener establishes a connection to a task store.
type Opener func(ctx context.Context) (Repository, error)

// Handle is the process-wide store connection. It is created at startup,
// connected once and passed to every component that reads or writes tasks.
type Handle struct {
	open Opener

	mu     sync.Mutex
	repo   Repository
	closed bool
}

var _ Provider = (*Handle)(nil)

// NewHandle returns an unconnected handle.
func NewHandle(open Opener) *Handle {
	return &Handle{open: open}
}

// NewConnectedHandle wraps an already open store.
func NewConnectedHandle(repo Repository) *Handle {
	return &Handle{repo: repo}
}

// Connect establishes the connection. Calling it again after success is a no-op.
func (h *Handle) Connect(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return NewClosedError()
	}
	if h.repo != nil {
		return nil
	}
	if h.open == nil {
		return errors.NewPreconditionError("task store", "no store configured")
	}

	repo, err := h.open(ctx)
	if err != nil {
		return err
	}
	h.repo = repo
	return nil
}

// Store returns the connected store. Using the handle before Connect or
// after Close is a precondition failure.
func (h *Handle) Store(_ context.Context) (Repository, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, NewClosedError()
	}
	if h.repo == nil {
		return nil, errors.NewPreconditionError("task store", "connection not established")
	}
	return h.repo, nil
}

// Close closes the underlying store if it was connected.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	if h.repo == nil {
		return nil
	}
	return h.repo.Close()
}
