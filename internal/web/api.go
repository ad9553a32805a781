package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"task-list/internal/domain"
	"task-list/internal/errors"
	"task-list/internal/logging"
)

// TaskListResponse is the body of GET /api/tasks.
type TaskListResponse struct {
	Tasks []*domain.Task `json:"tasks"`
}

// ErrorResponse is the body of every JSON error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to encode JSON response")
		http.Error(w, errors.ServerErrorMessage, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.ShouldLogError(err) {
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, r, errors.HTTPStatus(err), ErrorResponse{
		Error: errors.GetUserMessage(err),
		Code:  errors.GetErrorCode(err),
	})
}

// handleAPIListTasks is the JSON form of the list view, including the
// reconcile dispatch after the response is written.
func (s *Server) handleAPIListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.ListTasks(r.Context())
	if err != nil {
		writeJSONError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, TaskListResponse{Tasks: tasks})
	flush(w)

	s.dispatchReconcile(r, tasks)
}

func (s *Server) handleAPIGetTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskId")
	task, err := s.tasks.GetTask(r.Context(), taskID)
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	if task == nil {
		writeJSONError(w, r, errors.NewNotFoundError("task", taskID))
		return
	}

	writeJSON(w, r, http.StatusOK, task)
}
