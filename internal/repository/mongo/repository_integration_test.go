//go:build integration

package mongo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"task-list/internal/repository"
	"task-list/internal/repository/storetest"
	"task-list/internal/testinfra"
)

func TestMongoRepository_Contract(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	container, err := testinfra.NewMongoContainer(ctx)
	require.NoError(t, err)
	defer testinfra.CleanupContainer(t, ctx, container)

	n := 0
	storetest.Run(t, func(t *testing.T) repository.Repository {
		n++
		repo, err := Connect(ctx, container.DatabaseURL(fmt.Sprintf("contract_%d", n)))
		require.NoError(t, err)
		return repo
	})
}

func TestMongoRepository_ListsLegacyDocuments(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	container, err := testinfra.NewMongoContainer(ctx)
	require.NoError(t, err)
	defer testinfra.CleanupContainer(t, ctx, container)

	repo, err := Connect(ctx, container.DatabaseURL("legacy"))
	require.NoError(t, err)
	defer repo.Close()

	_, err = repo.collection.InsertMany(ctx, []interface{}{
		bson.D{{Key: "name", Value: "done"}, {Key: "checked", Value: true}, {Key: "dueDate", Value: "2020-01-01"}},
		bson.D{{Key: "name", Value: "late"}, {Key: "checked", Value: nil}, {Key: "dueDate", Value: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}},
	})
	require.NoError(t, err)

	tasks, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	byName := map[string]bool{}
	for _, task := range tasks {
		byName[task.Name] = task.Overdue()
	}
	assert.False(t, byName["done"])
	assert.True(t, byName["late"])
}
