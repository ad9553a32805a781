package cli

import (
	"context"
	"fmt"

	"task-list/internal/errors"
)

// DeleteCommand handles the delete command
type DeleteCommand struct {
	app *App
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app}
}

// Execute deletes the task whose ID is args[0]. An unknown ID is reported
// but is not an error.
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return errors.NewInvalidInputError("task id", args, "exactly one task id is required")
	}
	taskID := args[0]

	task, err := c.app.tasks.GetTask(ctx, taskID)
	if err != nil {
		return NewErrorHandler().Handle("delete task", err)
	}
	if task == nil {
		fmt.Fprintf(c.app.out, "No task with id %s\n", taskID)
		return nil
	}

	if err := c.app.tasks.DeleteTask(ctx, taskID); err != nil {
		return NewErrorHandler().Handle("delete task", err)
	}

	fmt.Fprintf(c.app.out, "Deleted task: %s\n", task.Name)
	return nil
}
