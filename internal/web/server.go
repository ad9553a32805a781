// Package web serves the task pages, a small JSON API and the operational
// endpoints. The list handlers double as the reconcile trigger: they answer
// with the tasks as fetched and only then hand the same snapshot to the
// background dispatcher.
package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"task-list/internal/domain"
	"task-list/internal/errors"
	"task-list/internal/logging"
	"task-list/internal/repository"
	"task-list/internal/services"
)

// Dispatcher accepts a snapshot for background reconciliation without blocking.
type Dispatcher interface {
	Dispatch(ctx context.Context, snapshot []domain.Task) error
}

// pendingReporter is implemented by dispatchers that can report their backlog.
type pendingReporter interface {
	Pending() int
}

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	tasks      services.TaskService
	dispatcher Dispatcher
	store      repository.Provider
	views      *Views
}

// Options wires a Server. Dispatcher and Store may be nil.
type Options struct {
	Tasks      services.TaskService
	Dispatcher Dispatcher
	Store      repository.Provider
}

// NewServer parses the views and returns a ready Server.
func NewServer(opts Options) (*Server, error) {
	views, err := LoadViews()
	if err != nil {
		return nil, err
	}
	return &Server{
		tasks:      opts.Tasks,
		dispatcher: opts.Dispatcher,
		store:      opts.Store,
		views:      views,
	}, nil
}

// Router builds the chi router with every route and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(AccessLog)
	r.Use(Metrics)
	r.Use(s.Recoverer)

	r.NotFound(s.handleNotFound)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/task", http.StatusFound)
	})

	r.Route("/task", func(r chi.Router) {
		r.Get("/", s.handleListTasks)
		r.Get("/create", s.handleCreateForm)
		r.Post("/create", s.handleCreateTask)
		r.Post("/delete", s.handleDeleteTask)
		r.Get("/edit/{taskId}", s.handleEditForm)
		r.Post("/edit", s.handleEditTask)
		r.Get("/{taskId}", s.handleShowTask)
	})

	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", s.handleAPIListTasks)
		r.Get("/{taskId}", s.handleAPIGetTask)
	})

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// dispatchReconcile hands a copy of the fetched tasks to the background
// dispatcher. Failures are logged; the response has already been written.
func (s *Server) dispatchReconcile(r *http.Request, tasks []*domain.Task) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Dispatch(r.Context(), domain.CloneAll(tasks)); err != nil {
		ReconcileDispatchFailuresTotal.Inc()
		logging.Ctx(r.Context()).Warn().Err(err).Int("tasks", len(tasks)).Msg("failed to dispatch reconcile")
	}
}

// flush pushes the written response to the client before any follow-up work.
func flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// renderError logs unexpected failures and renders the error page with the
// status and message the error maps to. A nil err renders a plain 500.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := errors.ServerErrorMessage
	if err != nil {
		status = errors.HTTPStatus(err)
		message = errors.GetUserMessage(err)
		if errors.ShouldLogError(err) {
			logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		}
	}

	if renderErr := s.views.Render(w, status, ViewError, ErrorData{Message: message}); renderErr != nil {
		logging.Ctx(r.Context()).Error().Err(renderErr).Msg("failed to render error page")
		http.Error(w, message, status)
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data interface{}) {
	if err := s.views.Render(w, http.StatusOK, name, data); err != nil {
		s.renderError(w, r, err)
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if err := s.views.Render(w, http.StatusNotFound, ViewNotFound, nil); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to render 404 page")
		http.NotFound(w, r)
	}
}

// handleHealth answers 503 when the store handle is unusable. The reconcile
// backlog is reported when the dispatcher exposes it.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]interface{}{"status": "ok"}

	if s.store != nil {
		if _, err := s.store.Store(r.Context()); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "unavailable"
			body["error"] = err.Error()
		}
	}
	if p, ok := s.dispatcher.(pendingReporter); ok {
		body["reconcile_pending"] = p.Pending()
	}

	writeJSON(w, r, status, body)
}
