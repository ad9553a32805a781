package sqlite

import "task-list/internal/domain"

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// taskColumns is the column list ScanTask expects, in order.
const taskColumns = "id, name, checked, due_date, over_due"

// ScanTask scans a single task from a database row
func ScanTask(scanner Scanner) (*domain.Task, error) {
	var row taskRow
	var overDue int
	if err := scanner.Scan(&row.ID, &row.Name, &row.Checked, &row.DueDate, &overDue); err != nil {
		return nil, err
	}
	row.OverDue = ParseBoolFromDB(overDue)
	return row.toDomain(), nil
}

// ScanTasks scans multiple tasks from database rows
func ScanTasks(rows Rows) ([]*domain.Task, error) {
	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := ScanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}
