package cli

import (
	"context"
	"net/http"
	"time"

	"task-list/internal/config"
	"task-list/internal/logging"
	"task-list/internal/reconcile"
	"task-list/internal/services"
	"task-list/internal/supervisor"
	"task-list/internal/web"
)

// connectTimeout bounds the initial store connection at startup.
const connectTimeout = 30 * time.Second

// ServeCommand runs the web server and the reconcile dispatcher until the
// context is cancelled.
type ServeCommand struct {
	config *config.Config
}

// NewServeCommand creates a new serve command handler
func NewServeCommand(cfg *config.Config) *ServeCommand {
	return &ServeCommand{config: cfg}
}

// Execute runs the serve command
func (c *ServeCommand) Execute(ctx context.Context) error {
	handle := config.NewStoreHandle(c.config)
	defer func() {
		if err := handle.Close(); err != nil {
			logging.Err(err).Msg("failed to close task store")
		}
	}()

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	err := handle.Connect(connectCtx)
	cancel()
	if err != nil {
		return NewErrorHandler().Handle("connect to task store", err)
	}

	reconciler := reconcile.NewReconciler(handle, reconcile.Options{
		Enabled:     c.config.CheckStatusEnabled(),
		Concurrency: c.config.Reconcile.Concurrency,
	})
	dispatcher := reconcile.NewDispatcher(reconciler, reconcile.DispatcherConfig{
		Workers:   c.config.Reconcile.Workers,
		QueueSize: c.config.Reconcile.QueueSize,
	})

	server, err := web.NewServer(web.Options{
		Tasks:      services.NewTaskService(handle),
		Dispatcher: dispatcher,
		Store:      handle,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              c.config.Address(),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: c.config.Server.ShutdownTimeout,
	})
	tree.AddReconcileService(dispatcher)
	tree.AddAPIService(supervisor.NewHTTPServerService(httpServer, c.config.Server.ShutdownTimeout))

	logging.Info().
		Str("addr", httpServer.Addr).
		Bool("check_status", reconciler.Enabled()).
		Int("workers", c.config.Reconcile.Workers).
		Msg("task list server starting")

	err = tree.Serve(ctx)
	reportUnstopped(tree)
	if err != nil && ctx.Err() == nil {
		return err
	}

	logging.Info().Msg("task list server stopped")
	return nil
}

// reportUnstopped logs the services that outlived the shutdown timeout.
func reportUnstopped(tree *supervisor.Tree) int {
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("service failed to stop")
		}
	}
	return len(unstopped)
}
