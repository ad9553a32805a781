package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"task-list/internal/domain"
	"task-list/internal/logging"
	"task-list/internal/services"
)

// handleListTasks renders every task as fetched, then dispatches the same
// snapshot for reconciliation. Flags written by that run show up on the
// next list view.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.ListTasks(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	if err := s.views.Render(w, http.StatusOK, ViewTasksList, TasksListData{Tasks: tasks}); err != nil {
		s.renderError(w, r, err)
		return
	}
	flush(w)

	s.dispatchReconcile(r, tasks)
}

func (s *Server) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, ViewTaskDetail, TaskDetailData{})
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, err)
		return
	}

	task, err := s.tasks.CreateTask(r.Context(), taskInputFromForm(r))
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("task_id", task.ID).Msg("created task")
	http.Redirect(w, r, "/task", http.StatusFound)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, err)
		return
	}

	taskID := r.PostForm.Get("taskId")
	if err := s.tasks.DeleteTask(r.Context(), taskID); err != nil {
		s.renderError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("task_id", taskID).Msg("deleted task")
	http.Redirect(w, r, "/task", http.StatusFound)
}

// handleEditForm needs ?edit=true; without it, or for an unknown task, it
// redirects to the list.
func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	if !editRequested(r.URL.Query().Get("edit")) {
		http.Redirect(w, r, "/task", http.StatusFound)
		return
	}

	task, err := s.tasks.GetTask(r.Context(), chi.URLParam(r, "taskId"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if task == nil {
		http.Redirect(w, r, "/task", http.StatusFound)
		return
	}

	s.render(w, r, ViewTaskDetail, TaskDetailData{Editing: true, Task: task})
}

func (s *Server) handleEditTask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, err)
		return
	}

	taskID := r.PostForm.Get("taskId")
	if _, err := s.tasks.UpdateTask(r.Context(), taskID, taskInputFromForm(r)); err != nil {
		s.renderError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("task_id", taskID).Msg("updated task")
	http.Redirect(w, r, "/task", http.StatusFound)
}

func (s *Server) handleShowTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.GetTask(r.Context(), chi.URLParam(r, "taskId"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if task == nil {
		http.Redirect(w, r, "/task", http.StatusFound)
		return
	}

	s.render(w, r, ViewTaskDetail, TaskDetailData{Task: task})
}

// taskInputFromForm reads name, checked and dueDate. An absent or empty
// checked field means the task is not done.
func taskInputFromForm(r *http.Request) services.TaskInput {
	input := services.TaskInput{
		Name:    r.PostForm.Get("name"),
		DueDate: r.PostForm.Get("dueDate"),
	}
	if checked := r.PostForm.Get("checked"); checked != "" {
		input.Checked = domain.StringPtr(checked)
	}
	return input
}

func editRequested(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "false", "0":
		return false
	}
	return true
}
