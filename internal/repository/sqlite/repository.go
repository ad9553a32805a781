// Package sqlite is the embedded task store built on modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"task-list/internal/domain"
	"task-list/internal/errors"
	"task-list/internal/logging"
	"task-list/internal/repository"
	"task-list/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements repository.Repository
type SQLiteRepository struct {
	db *sql.DB

	mu     sync.RWMutex
	closed bool
}

var _ repository.Repository = (*SQLiteRepository)(nil)

// timeNow stamps created_at/updated_at; tests replace it.
var timeNow = time.Now

// New creates a new SQLite repository instance. dbPath may be ":memory:".
func New(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}
	// SQLite allows one writer; a single connection also keeps ":memory:"
	// databases from splitting per connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("connect", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	version, err := migrations.CurrentVersion(db)
	if err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("read schema version", err)
	}

	logging.Debug().Str("path", dbPath).Int("schema_version", version).Msg("sqlite task store opened")
	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection. Later calls are no-ops.
func (r *SQLiteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.db.Close()
}

func (r *SQLiteRepository) conn() (*sql.DB, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, repository.NewClosedError()
	}
	return r.db, nil
}

// InsertTask creates a new task
func (r *SQLiteRepository) InsertTask(ctx context.Context, task *domain.Task) error {
	db, err := r.conn()
	if err != nil {
		return err
	}

	id := uuid.NewString()
	row := rowFromDomain(task)
	now := FormatTimeForDB(timeNow())
	query := `
	INSERT INTO task (id, name, checked, due_date, over_due, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	if _, err := Execute(ctx, db, query, id, row.Name, FormatNullStringForDB(row.Checked), row.DueDate, FormatBoolForDB(row.OverDue), now, now); err != nil {
		return HandleWriteError("insert task", task.Name, err)
	}
	task.ID = id
	return nil
}

// UpdateTask replaces every field of an existing task
func (r *SQLiteRepository) UpdateTask(ctx context.Context, task *domain.Task) error {
	db, err := r.conn()
	if err != nil {
		return err
	}

	row := rowFromDomain(task)
	query := `
	UPDATE task
	SET name = ?, checked = ?, due_date = ?, over_due = ?, updated_at = ?
	WHERE id = ?`

	if _, err := Execute(ctx, db, query, row.Name, FormatNullStringForDB(row.Checked), row.DueDate, FormatBoolForDB(row.OverDue), FormatTimeForDB(timeNow()), row.ID); err != nil {
		return HandleWriteError("update task", task.Name, err)
	}
	return nil
}

// FindTask retrieves a task by ID
func (r *SQLiteRepository) FindTask(ctx context.Context, id string) (*domain.Task, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + taskColumns + ` FROM task WHERE id = ?`
	return QuerySingle(ctx, db, query, ScanTask, "task", id)
}

// ListTasks retrieves all tasks
func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + taskColumns + ` FROM task ORDER BY rowid ASC`
	return QueryMultiple(ctx, db, query, ScanTasks, "tasks")
}

// DeleteTask deletes a task by ID
func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	db, err := r.conn()
	if err != nil {
		return err
	}
	if _, err := Execute(ctx, db, `DELETE FROM task WHERE id = ?`, id); err != nil {
		return HandleDatabaseError("delete task", err)
	}
	return nil
}
