package cli

import (
	"context"
	"fmt"

	"task-list/internal/domain"
	"task-list/internal/errors"
)

// ReconcileCommand runs one reconcile pass over a fresh snapshot and waits
// for every update to settle before returning.
type ReconcileCommand struct {
	app *App
}

// NewReconcileCommand creates a new reconcile command handler
func NewReconcileCommand(app *App) *ReconcileCommand {
	return &ReconcileCommand{app: app}
}

// Execute runs the reconcile command
func (c *ReconcileCommand) Execute(ctx context.Context, args []string) error {
	tasks, err := c.app.tasks.ListTasks(ctx)
	if err != nil {
		return NewErrorHandler().Handle("load tasks", err)
	}

	result := c.app.reconciler.Reconcile(ctx, domain.CloneAll(tasks))
	switch {
	case result.Skipped:
		fmt.Fprintln(c.app.out, "Reconcile skipped: CHECK_STATUS is disabled")
		return nil
	case result.Aborted:
		return NewErrorHandler().Handle("reconcile tasks", result.Err)
	}

	fmt.Fprintf(c.app.out, "Examined %d tasks, flagged %d overdue, %d failed\n",
		result.Examined, result.Flagged, result.Failed)
	if result.Failed > 0 {
		return errors.WrapError(fmt.Errorf("%d updates failed", result.Failed), errors.ErrorTypeDatabase, "reconcile incomplete")
	}
	return nil
}
