package cli

import (
	"context"
	"fmt"
	"strings"

	"task-list/internal/domain"
)

// ListCommand handles the list command
type ListCommand struct {
	app *App
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{app: app}
}

// Execute runs the list command. Any arguments are joined into a
// case-insensitive name filter.
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	tasks, err := c.app.tasks.ListTasks(ctx)
	if err != nil {
		return NewErrorHandler().Handle("list tasks", err)
	}

	if filter := strings.ToLower(strings.Join(args, " ")); filter != "" {
		tasks = filterByName(tasks, filter)
	}

	return c.printTasks(tasks)
}

func filterByName(tasks []*domain.Task, filter string) []*domain.Task {
	var out []*domain.Task
	for _, task := range tasks {
		if strings.Contains(strings.ToLower(task.Name), filter) {
			out = append(out, task)
		}
	}
	return out
}

// printTasks prints one line per task in the format:
// [x] name (due: dueDate) status id
// The status shows the stored flag; "late" marks tasks that are overdue now
// but not flagged yet.
func (c *ListCommand) printTasks(tasks []*domain.Task) error {
	if len(tasks) == 0 {
		fmt.Fprintln(c.app.out, "No tasks found")
		return nil
	}

	now := timeNow()
	for _, task := range tasks {
		box := "[ ]"
		if task.IsChecked() {
			box = "[x]"
		}

		due := task.DueDate
		if due == "" {
			due = "none"
		}

		status := ""
		switch {
		case task.OverDue:
			status = " OVERDUE"
		case task.OverdueAt(now):
			status = " late"
		}

		fmt.Fprintf(c.app.out, "%s %s (due: %s)%s %s\n", box, task.Name, due, status, task.ID)
	}
	return nil
}
