package cli

import (
	"io"
	"os"
	"time"

	"task-list/internal/reconcile"
	"task-list/internal/services"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// App carries the dependencies shared by the command handlers
type App struct {
	tasks      services.TaskService
	reconciler reconcile.Runner
	out        io.Writer
}

// NewApp creates a new CLI application instance with dependency injection.
// A nil out writes to stdout.
func NewApp(tasks services.TaskService, reconciler reconcile.Runner, out io.Writer) *App {
	if out == nil {
		out = os.Stdout
	}
	return &App{
		tasks:      tasks,
		reconciler: reconciler,
		out:        out,
	}
}
