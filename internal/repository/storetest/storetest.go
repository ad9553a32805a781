// Package storetest holds the behavioural contract every task store backend
// must satisfy. Backend tests call Run with a factory for a fresh, empty store.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-list/internal/domain"
	"task-list/internal/errors"
	"task-list/internal/repository"
)

// Factory returns an empty store. The suite closes it.
type Factory func(t *testing.T) repository.Repository

// MissingIDs are identifiers no backend will ever assign.
var MissingIDs = []string{"000000000000000000000000", "does-not-exist", ""}

// Run executes the contract suite against the stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, repo repository.Repository)
	}{
		{"InsertAssignsID", testInsertAssignsID},
		{"FindRoundTrip", testFindRoundTrip},
		{"FindMissingReturnsNil", testFindMissingReturnsNil},
		{"DuplicateNameConflict", testDuplicateNameConflict},
		{"UpdateReplacesDocument", testUpdateReplacesDocument},
		{"UpdateMissingIsNoop", testUpdateMissingIsNoop},
		{"UpdateRenameConflict", testUpdateRenameConflict},
		{"DeleteRemovesTask", testDeleteRemovesTask},
		{"DeleteMissingIsNoop", testDeleteMissingIsNoop},
		{"ListReturnsAll", testListReturnsAll},
		{"ConcurrentUpdates", testConcurrentUpdates},
		{"ClosedStoreFailsPrecondition", testClosedStoreFailsPrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newStore(t)
			t.Cleanup(func() { repo.Close() })
			tt.fn(t, repo)
		})
	}
}

func insert(t *testing.T, repo repository.Repository, name string, checked *string, due string) *domain.Task {
	t.Helper()
	task := domain.NewTask(name, checked, due, "")
	require.NoError(t, repo.InsertTask(context.Background(), task))
	return task
}

func testInsertAssignsID(t *testing.T, repo repository.Repository) {
	a := insert(t, repo, "A", nil, "2020-01-01")
	b := insert(t, repo, "B", nil, "2020-01-01")

	assert.True(t, a.IsPersisted())
	assert.True(t, b.IsPersisted())
	assert.NotEqual(t, a.ID, b.ID)
}

func testFindRoundTrip(t *testing.T, repo repository.Repository) {
	ctx := context.Background()
	task := domain.NewTask("A", domain.StringPtr("on"), "2020-01-01", "")
	task.OverDue = true
	require.NoError(t, repo.InsertTask(ctx, task))

	found, err := repo.FindTask(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, *task, *found)

	unchecked := insert(t, repo, "B", nil, "2030-01-01")
	found, err = repo.FindTask(ctx, unchecked.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Nil(t, found.Checked)
	assert.False(t, found.OverDue)
}

func testFindMissingReturnsNil(t *testing.T, repo repository.Repository) {
	for _, id := range MissingIDs {
		found, err := repo.FindTask(context.Background(), id)
		assert.NoError(t, err, id)
		assert.Nil(t, found, id)
	}
}

func testDuplicateNameConflict(t *testing.T, repo repository.Repository) {
	ctx := context.Background()
	insert(t, repo, "X", nil, "2020-01-01")

	second := domain.NewTask("X", nil, "2021-01-01", "")
	err := repo.InsertTask(ctx, second)
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	value, _ := appErr.GetContext("value")
	assert.Equal(t, "X", value)

	tasks, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	named := 0
	for _, task := range tasks {
		if task.Name == "X" {
			named++
		}
	}
	assert.Equal(t, 1, named)
}

func testUpdateReplacesDocument(t *testing.T, repo repository.Repository) {
	ctx := context.Background()
	task := insert(t, repo, "A", nil, "2020-01-01")

	replacement := domain.NewTask("A2", domain.StringPtr("on"), "2021-02-02", task.ID)
	replacement.OverDue = true
	require.NoError(t, repo.UpdateTask(ctx, replacement))

	found, err := repo.FindTask(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, *replacement, *found)

	// Fields left out of the replacement are gone.
	cleared := domain.NewTask("A2", nil, "2021-02-02", task.ID)
	require.NoError(t, repo.UpdateTask(ctx, cleared))

	found, err = repo.FindTask(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Nil(t, found.Checked)
	assert.False(t, found.OverDue)
}

func testUpdateMissingIsNoop(t *testing.T, repo repository.Repository) {
	ctx := context.Background()
	insert(t, repo, "A", nil, "2020-01-01")

	for _, id := range MissingIDs[:2] {
		ghost := domain.NewTask("ghost", nil, "2020-01-01", id)
		assert.NoError(t, repo.UpdateTask(ctx, ghost), id)
	}

	tasks, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "A", tasks[0].Name)
}

func testUpdateRenameConflict(t *testing.T, repo repository.Repository) {
	ctx := context.Background()
	insert(t, repo, "A", nil, "2020-01-01")
	b := insert(t, repo, "B", nil, "2020-01-01")

	err := repo.UpdateTask(ctx, domain.NewTask("A", nil, "2020-01-01", b.ID))
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))

	found, err := repo.FindTask(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "B", found.Name)
}

func testDeleteRemovesTask(t *testing.T, repo repository.Repository) {
	ctx := context.Background()
	a := insert(t, repo, "A", nil, "2020-01-01")
	insert(t, repo, "B", nil, "2020-01-01")

	require.NoError(t, repo.DeleteTask(ctx, a.ID))

	found, err := repo.FindTask(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	// The name is free again.
	insert(t, repo, "A", nil, "2020-01-01")
}

func testDeleteMissingIsNoop(t *testing.T, repo repository.Repository) {
	ctx := context.Background()
	insert(t, repo, "A", nil, "2020-01-01")

	for _, id := range MissingIDs {
		assert.NoError(t, repo.DeleteTask(ctx, id), id)
	}

	tasks, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func testListReturnsAll(t *testing.T, repo repository.Repository) {
	ctx := context.Background()

	tasks, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	want := map[string]bool{}
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("task-%d", i)
		insert(t, repo, name, nil, "2020-01-01")
		want[name] = true
	}

	tasks, err = repo.ListTasks(ctx)
	require.NoError(t, err)
	got := map[string]bool{}
	for _, task := range tasks {
		got[task.Name] = true
	}
	assert.Equal(t, want, got)
}

func testConcurrentUpdates(t *testing.T, repo repository.Repository) {
	ctx := context.Background()
	var tasks []*domain.Task
	for i := 0; i < 10; i++ {
		tasks = append(tasks, insert(t, repo, fmt.Sprintf("task-%d", i), nil, "2020-01-01"))
	}

	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		go func(task domain.Task) {
			defer wg.Done()
			task.OverDue = true
			assert.NoError(t, repo.UpdateTask(ctx, &task))
		}(task.Clone())
	}
	wg.Wait()

	stored, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, stored, len(tasks))
	for _, task := range stored {
		assert.True(t, task.OverDue, task.Name)
	}
}

func testClosedStoreFailsPrecondition(t *testing.T, repo repository.Repository) {
	ctx := context.Background()
	task := insert(t, repo, "A", nil, "2020-01-01")
	require.NoError(t, repo.Close())

	_, err := repo.ListTasks(ctx)
	assert.True(t, errors.IsPrecondition(err), "list: %v", err)

	_, err = repo.FindTask(ctx, task.ID)
	assert.True(t, errors.IsPrecondition(err), "find: %v", err)

	err = repo.InsertTask(ctx, domain.NewTask("B", nil, "", ""))
	assert.True(t, errors.IsPrecondition(err), "insert: %v", err)

	err = repo.UpdateTask(ctx, task)
	assert.True(t, errors.IsPrecondition(err), "update: %v", err)

	err = repo.DeleteTask(ctx, task.ID)
	assert.True(t, errors.IsPrecondition(err), "delete: %v", err)
}
