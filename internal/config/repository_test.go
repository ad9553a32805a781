package config

import (
	"context"
	"path/filepath"
	"testing"

	"task-list/internal/domain"
	"task-list/internal/errors"
	"task-list/internal/repository/badger"
	"task-list/internal/repository/sqlite"
)

func TestCreateRepository(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		url  string
		want interface{}
	}{
		{"sqlite file", "sqlite://" + filepath.Join(dir, "tasks.db"), &sqlite.SQLiteRepository{}},
		{"sqlite memory", "sqlite://:memory:", &sqlite.SQLiteRepository{}},
		{"badger dir", "badger://" + filepath.Join(dir, "badger"), &badger.BadgerRepository{}},
		{"badger memory", "badger://:memory:", &badger.BadgerRepository{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Database.URL = tt.url

			repo, err := CreateRepository(context.Background(), cfg)
			if err != nil {
				t.Fatalf("CreateRepository() error = %v", err)
			}
			defer repo.Close()

			switch tt.want.(type) {
			case *sqlite.SQLiteRepository:
				if _, ok := repo.(*sqlite.SQLiteRepository); !ok {
					t.Errorf("CreateRepository() = %T, want sqlite", repo)
				}
			case *badger.BadgerRepository:
				if _, ok := repo.(*badger.BadgerRepository); !ok {
					t.Errorf("CreateRepository() = %T, want badger", repo)
				}
			}

			ctx := context.Background()
			if err := repo.InsertTask(ctx, domain.NewTask("Test Task", nil, "2030-01-01", "")); err != nil {
				t.Fatalf("InsertTask() error = %v", err)
			}
			tasks, err := repo.ListTasks(ctx)
			if err != nil {
				t.Fatalf("ListTasks() error = %v", err)
			}
			if len(tasks) != 1 {
				t.Errorf("ListTasks() returned %d tasks, want 1", len(tasks))
			}
		})
	}
}

func TestCreateRepositoryErrors(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantType errors.ErrorType
	}{
		{"missing url", "", errors.ErrorTypePrecondition},
		{"no scheme", "localhost:27017", errors.ErrorTypeInvalidInput},
		{"unknown scheme", "postgres://localhost/list", errors.ErrorTypeInvalidInput},
		{"empty sqlite path", "sqlite://", errors.ErrorTypeInvalidInput},
		{"empty badger dir", "badger://", errors.ErrorTypeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Database.URL = tt.url

			repo, err := CreateRepository(context.Background(), cfg)
			if err == nil {
				repo.Close()
				t.Fatal("CreateRepository() should fail")
			}
			if !errors.IsErrorType(err, tt.wantType) {
				t.Errorf("CreateRepository() error = %v, want type %v", err, tt.wantType)
			}
		})
	}
}

func TestCreateRepositoryUsesLegacyMongoURL(t *testing.T) {
	cfg := NewConfig()
	cfg.Database.MongoDBURL = "not-a-url"

	_, err := CreateRepository(context.Background(), cfg)
	if !errors.IsErrorType(err, errors.ErrorTypeInvalidInput) {
		t.Errorf("CreateRepository() error = %v, want invalid_input from the MONGODB_URL fallback", err)
	}
}

func TestNewStoreHandle(t *testing.T) {
	cfg := NewConfig()
	cfg.Database.URL = "sqlite://:memory:"

	handle := NewStoreHandle(cfg)
	defer handle.Close()

	ctx := context.Background()
	if _, err := handle.Store(ctx); !errors.IsPrecondition(err) {
		t.Errorf("Store() before Connect should be a precondition error, got %v", err)
	}
	if err := handle.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if _, err := handle.Store(ctx); err != nil {
		t.Errorf("Store() after Connect error = %v", err)
	}
}
