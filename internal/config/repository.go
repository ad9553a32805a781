package config

import (
	"context"
	"strings"

	"task-list/internal/errors"
	"task-list/internal/repository"
	"task-list/internal/repository/badger"
	"task-list/internal/repository/mongo"
	"task-list/internal/repository/sqlite"
)

// CreateRepository connects to the task store named by the DATABASE_URL scheme:
//
//	mongodb://, mongodb+srv://  MongoDB
//	sqlite://<path>             SQLite file, or sqlite://:memory:
//	badger://<dir>              BadgerDB directory, or badger://:memory:
//
// A missing URL fails instead of falling back to a default store.
func CreateRepository(ctx context.Context, config *Config) (repository.Repository, error) {
	raw := strings.TrimSpace(config.DatabaseURL())
	if raw == "" {
		return nil, errors.NewPreconditionError("task store", "DATABASE_URL is not set")
	}

	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return nil, errors.NewInvalidInputError("DATABASE_URL", raw, "missing scheme")
	}

	switch strings.ToLower(scheme) {
	case "mongodb", "mongodb+srv":
		return mongo.Connect(ctx, raw)
	case "sqlite":
		if rest == "" {
			return nil, errors.NewInvalidInputError("DATABASE_URL", raw, "missing sqlite path")
		}
		return sqlite.New(rest)
	case "badger":
		if rest == "" {
			return nil, errors.NewInvalidInputError("DATABASE_URL", raw, "missing badger directory")
		}
		return badger.New(rest)
	default:
		return nil, errors.NewInvalidInputError("DATABASE_URL", raw, "unsupported scheme "+scheme)
	}
}

// NewStoreHandle returns an unconnected handle that opens the configured store.
func NewStoreHandle(config *Config) *repository.Handle {
	return repository.NewHandle(func(ctx context.Context) (repository.Repository, error) {
		return CreateRepository(ctx, config)
	})
}
