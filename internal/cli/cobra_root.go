package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"task-list/internal/config"
	"task-list/internal/logging"
	"task-list/internal/reconcile"
	"task-list/internal/services"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd    *cobra.Command
	loader *config.Loader
	config *config.Config
	out    io.Writer
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand() *RootCommand {
	root := &RootCommand{
		loader: config.NewLoader(),
		out:    os.Stdout,
	}

	root.cmd = &cobra.Command{
		Use:   "tasklist",
		Short: "A small task list web application",
		Long: `tasklist serves a task list over HTTP and flags overdue tasks in the background.

Every list view answers with the tasks as stored and then queues the same
snapshot for reconciliation. Tasks found overdue are flagged in the store and
show up as overdue on the next list view.

EXAMPLES:
  tasklist                                       # Run the web server (same as serve)
  tasklist serve --port 8080                     # Run the web server on another port
  tasklist reconcile                             # Flag overdue tasks once and exit
  tasklist list                                  # Print every task
  tasklist add "Renew passport" --due 2025-03-01 # Add a task
  tasklist delete <task id>                      # Delete a task

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > config file > defaults

    DATABASE_URL                  Task store: mongodb://, sqlite://<path> or badger://<dir> (required)
    MONGODB_URL                   Used when DATABASE_URL is empty
    CHECK_STATUS                  Enable overdue reconciliation (default: true)
    PORT                          HTTP port (default: 3000)
    SHUTDOWN_TIMEOUT              Graceful shutdown timeout (default: 10s)
    RECONCILE_WORKERS             Concurrent reconcile runs (default: 4)
    RECONCILE_QUEUE_SIZE          Queued reconcile runs (default: 64)
    RECONCILE_CONCURRENCY         Updates in flight per run (default: 8)
    LOG_LEVEL                     trace, debug, info, warn, error (default: info)
    LOG_FORMAT                    json or console (default: json)
    CONFIG_PATH                   Optional YAML config file`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewServeCommand(root.config).Execute(cmd.Context())
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

// ExecuteContext runs the root command with ctx as the base context
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	return r.cmd.ExecuteContext(ctx)
}

// SetArgs overrides the arguments, for tests
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// SetOutput redirects command output
func (r *RootCommand) SetOutput(w io.Writer) {
	r.out = w
	r.cmd.SetOut(w)
	r.cmd.SetErr(w)
}

// Config returns the loaded configuration, nil before a command has run
func (r *RootCommand) Config() *config.Config {
	return r.config
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "YAML config file (overrides CONFIG_PATH)")
	flags.String("database-url", "", "Task store URL (overrides DATABASE_URL)")
	flags.Int("port", 0, "HTTP port (overrides PORT)")
	flags.String("check-status", "", "Enable overdue reconciliation (overrides CHECK_STATUS)")
	flags.Int("workers", 0, "Concurrent reconcile runs (overrides RECONCILE_WORKERS)")
	flags.Int("queue-size", 0, "Queued reconcile runs (overrides RECONCILE_QUEUE_SIZE)")
	flags.Int("concurrency", 0, "Updates in flight per reconcile run (overrides RECONCILE_CONCURRENCY)")
	flags.String("log-level", "", "Log level (overrides LOG_LEVEL)")
	flags.String("log-format", "", "Log format, json or console (overrides LOG_FORMAT)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Long:  "Run the web server and the background reconcile workers until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewServeCommand(r.config).Execute(cmd.Context())
		},
	}

	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Flag overdue tasks once",
		Long: `Load every task, flag the ones that are overdue and exit once all
updates have settled. Does nothing when CHECK_STATUS is disabled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd.Context(), func(ctx context.Context, app *App) error {
				return NewReconcileCommand(app).Execute(ctx, args)
			})
		},
	}

	listCmd := &cobra.Command{
		Use:   "list [text]",
		Short: "List tasks",
		Long: `List tasks with an optional case-insensitive name filter.

Examples:
  tasklist list            # List all tasks
  tasklist list "report"   # List tasks whose name contains "report"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd.Context(), func(ctx context.Context, app *App) error {
				return NewListCommand(app).Execute(ctx, args)
			})
		},
	}

	var dueDate string
	var checked bool
	addCmd := &cobra.Command{
		Use:   "add [task name]",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd.Context(), func(ctx context.Context, app *App) error {
				return NewAddCommand(app, dueDate, checked).Execute(ctx, args)
			})
		},
	}
	addCmd.Flags().StringVar(&dueDate, "due", "", "Due date, e.g. 2025-03-01")
	addCmd.Flags().BoolVar(&checked, "checked", false, "Mark the task as done")

	deleteCmd := &cobra.Command{
		Use:   "delete [task id]",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd.Context(), func(ctx context.Context, app *App) error {
				return NewDeleteCommand(app).Execute(ctx, args)
			})
		},
	}

	r.cmd.AddCommand(
		serveCmd,
		reconcileCmd,
		listCmd,
		addCmd,
		deleteCmd,
	)
}

// withApp connects to the configured store, runs fn and closes the store.
func (r *RootCommand) withApp(ctx context.Context, fn func(context.Context, *App) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	handle := config.NewStoreHandle(r.config)
	defer handle.Close()

	if err := handle.Connect(ctx); err != nil {
		return NewErrorHandler().Handle("connect to task store", err)
	}

	reconciler := reconcile.NewReconciler(handle, reconcile.Options{
		Enabled:     r.config.CheckStatusEnabled(),
		Concurrency: r.config.Reconcile.Concurrency,
	})
	app := NewApp(services.NewTaskService(handle), reconciler, r.out)

	return fn(ctx, app)
}

// loadConfig loads configuration with flag overrides and configures logging
func (r *RootCommand) loadConfig() error {
	cfg, err := r.loader.LoadWithOverrides(r.overridesFromFlags())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	r.config = cfg

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Timestamp: true,
	})
	return nil
}

// overridesFromFlags collects the flags that were set on the command line
func (r *RootCommand) overridesFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{}

	if flags.Changed("config") {
		v, _ := flags.GetString("config")
		overrides.ConfigPath = &v
	}
	if flags.Changed("database-url") {
		v, _ := flags.GetString("database-url")
		overrides.DatabaseURL = &v
	}
	if flags.Changed("port") {
		v, _ := flags.GetInt("port")
		overrides.Port = &v
	}
	if flags.Changed("check-status") {
		v, _ := flags.GetString("check-status")
		overrides.CheckStatus = &v
	}
	if flags.Changed("workers") {
		v, _ := flags.GetInt("workers")
		overrides.Workers = &v
	}
	if flags.Changed("queue-size") {
		v, _ := flags.GetInt("queue-size")
		overrides.QueueSize = &v
	}
	if flags.Changed("concurrency") {
		v, _ := flags.GetInt("concurrency")
		overrides.Concurrency = &v
	}
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		overrides.LogLevel = &v
	}
	if flags.Changed("log-format") {
		v, _ := flags.GetString("log-format")
		overrides.LogFormat = &v
	}

	return overrides
}
