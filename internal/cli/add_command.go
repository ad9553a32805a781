package cli

import (
	"context"
	"fmt"
	"strings"

	"task-list/internal/domain"
	"task-list/internal/errors"
	"task-list/internal/services"
)

// AddCommand handles the add command
type AddCommand struct {
	app     *App
	dueDate string
	checked bool
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App, dueDate string, checked bool) *AddCommand {
	return &AddCommand{app: app, dueDate: dueDate, checked: checked}
}

// Execute creates a task named by the joined arguments.
func (c *AddCommand) Execute(ctx context.Context, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return errors.NewInvalidInputError("name", name, "a task name is required")
	}

	input := services.TaskInput{Name: name, DueDate: c.dueDate}
	if c.checked {
		input.Checked = domain.StringPtr("on")
	}

	task, err := c.app.tasks.CreateTask(ctx, input)
	if err != nil {
		return NewErrorHandler().Handle("add task", err)
	}

	fmt.Fprintf(c.app.out, "Added task: %s (%s)\n", task.Name, task.ID)
	return nil
}
