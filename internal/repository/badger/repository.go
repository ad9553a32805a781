// Package badger stores tasks as JSON documents in an embedded BadgerDB.
//
// Keys:
//
//	task:<id>   -> JSON document
//	name:<name> -> id (uniqueness index)
package badger

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"task-list/internal/domain"
	"task-list/internal/errors"
	"task-list/internal/logging"
	"task-list/internal/repository"
)

const (
	taskKeyPrefix = "task:"
	nameKeyPrefix = "name:"

	// maxTxnAttempts bounds retries when optimistic transactions collide.
	maxTxnAttempts = 5
)

// InMemory is the path that opens a non-persistent store.
const InMemory = ":memory:"

type document struct {
	ID      string  `json:"_id"`
	Name    string  `json:"name"`
	Checked *string `json:"checked"`
	DueDate string  `json:"dueDate"`
	OverDue bool    `json:"overDue"`
}

func (d document) toDomain() *domain.Task {
	return &domain.Task{ID: d.ID, Name: d.Name, Checked: d.Checked, DueDate: d.DueDate, OverDue: d.OverDue}
}

func documentFrom(t *domain.Task) document {
	c := t.Clone()
	return document{ID: c.ID, Name: c.Name, Checked: c.Checked, DueDate: c.DueDate, OverDue: c.OverDue}
}

func taskKey(id string) []byte   { return []byte(taskKeyPrefix + id) }
func nameKey(name string) []byte { return []byte(nameKeyPrefix + name) }

// BadgerRepository implements repository.Repository on BadgerDB.
type BadgerRepository struct {
	db *badger.DB

	mu     sync.RWMutex
	closed bool
}

var _ repository.Repository = (*BadgerRepository)(nil)

// New opens (or creates) a store in dir. Pass InMemory for a throwaway store.
func New(dir string) (*BadgerRepository, error) {
	opts := badger.DefaultOptions(dir)
	if dir == InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = newBadgerLogger()

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.NewDatabaseError("open badger", err)
	}

	logging.Debug().Str("dir", dir).Msg("badger task store opened")
	return &BadgerRepository{db: db}, nil
}

// Close closes the underlying database. Later calls are no-ops.
func (r *BadgerRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.db.Close()
}

func (r *BadgerRepository) conn() (*badger.DB, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, repository.NewClosedError()
	}
	return r.db, nil
}

// update runs fn in a read-write transaction, retrying on ErrConflict.
func (r *BadgerRepository) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	db, err := r.conn()
	if err != nil {
		return err
	}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := db.Update(fn)
		if !stderrors.Is(err, badger.ErrConflict) || attempt == maxTxnAttempts {
			return err
		}
	}
}

func readDocument(txn *badger.Txn, id string) (*document, error) {
	item, err := txn.Get(taskKey(id))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var doc document
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &doc)
	}); err != nil {
		return nil, fmt.Errorf("decode task %s: %w", id, err)
	}
	return &doc, nil
}

func nameOwner(txn *badger.Txn, name string) (string, error) {
	item, err := txn.Get(nameKey(name))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	owner, err := item.ValueCopy(nil)
	return string(owner), err
}

func writeDocument(txn *badger.Txn, doc document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	if err := txn.Set(taskKey(doc.ID), data); err != nil {
		return err
	}
	return txn.Set(nameKey(doc.Name), []byte(doc.ID))
}

// InsertTask stores a new task under a fresh UUID.
func (r *BadgerRepository) InsertTask(ctx context.Context, task *domain.Task) error {
	doc := documentFrom(task)
	doc.ID = uuid.NewString()

	err := r.update(ctx, func(txn *badger.Txn) error {
		owner, err := nameOwner(txn, doc.Name)
		if err != nil {
			return err
		}
		if owner != "" {
			return errors.NewDuplicateNameError(doc.Name, nil)
		}
		return writeDocument(txn, doc)
	})
	if err != nil {
		return wrap("insert task", err)
	}

	task.ID = doc.ID
	return nil
}

// UpdateTask replaces the stored document. Unknown IDs are ignored.
func (r *BadgerRepository) UpdateTask(ctx context.Context, task *domain.Task) error {
	doc := documentFrom(task)

	err := r.update(ctx, func(txn *badger.Txn) error {
		current, err := readDocument(txn, doc.ID)
		if err != nil || current == nil {
			return err
		}

		if current.Name != doc.Name {
			owner, err := nameOwner(txn, doc.Name)
			if err != nil {
				return err
			}
			if owner != "" && owner != doc.ID {
				return errors.NewDuplicateNameError(doc.Name, nil)
			}
			if err := txn.Delete(nameKey(current.Name)); err != nil {
				return err
			}
		}
		return writeDocument(txn, doc)
	})
	return wrap("update task", err)
}

// FindTask returns nil, nil when no document has the id.
func (r *BadgerRepository) FindTask(ctx context.Context, id string) (*domain.Task, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}

	var found *document
	err = db.View(func(txn *badger.Txn) error {
		found, err = readDocument(txn, id)
		return err
	})
	if err != nil {
		return nil, wrap("find task", err)
	}
	if found == nil {
		return nil, nil
	}
	return found.toDomain(), nil
}

// ListTasks scans every task document.
func (r *BadgerRepository) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}

	tasks := make([]*domain.Task, 0)
	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(taskKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var doc document
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			tasks = append(tasks, doc.toDomain())
		}
		return nil
	})
	if err != nil {
		return nil, wrap("list tasks", err)
	}
	return tasks, nil
}

// DeleteTask removes the document and its name index entry.
func (r *BadgerRepository) DeleteTask(ctx context.Context, id string) error {
	err := r.update(ctx, func(txn *badger.Txn) error {
		current, err := readDocument(txn, id)
		if err != nil || current == nil {
			return err
		}
		if err := txn.Delete(taskKey(id)); err != nil {
			return err
		}
		return txn.Delete(nameKey(current.Name))
	})
	return wrap("delete task", err)
}

// wrap passes AppErrors through and turns anything else into a database error.
func wrap(operation string, err error) error {
	if err == nil || errors.IsAppError(err) {
		return err
	}
	return errors.NewDatabaseError(operation, err)
}
