package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"task-list/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// View names, one per page template.
const (
	ViewTasksList  = "tasks-list"
	ViewTaskDetail = "task-detail"
	ViewNotFound   = "404"
	ViewError      = "500"
)

// TasksListData is the model of the tasks-list view.
type TasksListData struct {
	Tasks []*domain.Task
}

// TaskDetailData is the model of the task-detail view. A nil Task renders
// the create form.
type TaskDetailData struct {
	Editing bool
	Task    *domain.Task
}

// ErrorData is the model of the error view.
type ErrorData struct {
	Message string
}

// Views holds the parsed page templates.
type Views struct {
	pages map[string]*template.Template
}

// LoadViews parses every page together with the shared layout.
func LoadViews() (*Views, error) {
	views := &Views{pages: make(map[string]*template.Template)}
	for _, name := range []string{ViewTasksList, ViewTaskDetail, ViewNotFound, ViewError} {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse view %s: %w", name, err)
		}
		views.pages[name] = tmpl
	}
	return views, nil
}

// Render executes the view into a buffer first so a template error never
// leaves a half-written page behind.
func (v *Views) Render(w http.ResponseWriter, status int, name string, data interface{}) error {
	tmpl, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("unknown view %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to render view %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
