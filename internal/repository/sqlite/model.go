package sqlite

import (
	"database/sql"

	"task-list/internal/domain"
)

// taskRow mirrors one row of the task table.
type taskRow struct {
	ID      string
	Name    string
	Checked sql.NullString
	DueDate string
	OverDue bool
}

func (r taskRow) toDomain() *domain.Task {
	task := &domain.Task{
		ID:      r.ID,
		Name:    r.Name,
		DueDate: r.DueDate,
		OverDue: r.OverDue,
	}
	if r.Checked.Valid {
		task.Checked = domain.StringPtr(r.Checked.String)
	}
	return task
}

func rowFromDomain(t *domain.Task) taskRow {
	row := taskRow{
		ID:      t.ID,
		Name:    t.Name,
		DueDate: t.DueDate,
		OverDue: t.OverDue,
	}
	if t.Checked != nil {
		row.Checked = sql.NullString{String: *t.Checked, Valid: true}
	}
	return row
}
