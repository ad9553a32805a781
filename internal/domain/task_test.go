package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	tests := []struct {
		name     string
		taskName string
		checked  *string
		dueDate  string
		id       string
		expected *Task
	}{
		{
			name:     "creates unsaved task",
			taskName: "Write report",
			dueDate:  "2024-05-01",
			expected: &Task{Name: "Write report", DueDate: "2024-05-01"},
		},
		{
			name:     "creates task with identifier",
			taskName: "Write report",
			checked:  StringPtr("on"),
			dueDate:  "2024-05-01",
			id:       "abc",
			expected: &Task{ID: "abc", Name: "Write report", Checked: StringPtr("on"), DueDate: "2024-05-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewTask(tt.taskName, tt.checked, tt.dueDate, tt.id)
			assert.Equal(t, tt.expected, result)
			assert.False(t, result.OverDue)
		})
	}
}

func TestTask_IsPersisted(t *testing.T) {
	assert.False(t, Task{Name: "A"}.IsPersisted())
	assert.True(t, Task{ID: "1", Name: "A"}.IsPersisted())
}

func TestTask_IsChecked(t *testing.T) {
	assert.False(t, Task{}.IsChecked())
	assert.True(t, Task{Checked: StringPtr("on")}.IsChecked())
	assert.True(t, Task{Checked: StringPtr("")}.IsChecked(), "any marker counts as done")
}

func TestTask_Clone(t *testing.T) {
	original := Task{ID: "1", Name: "A", Checked: StringPtr("on"), DueDate: "2020-01-01", OverDue: true}

	clone := original.Clone()
	require.Equal(t, original, clone)

	*clone.Checked = "changed"
	clone.Name = "B"
	assert.Equal(t, "on", *original.Checked)
	assert.Equal(t, "A", original.Name)
}

func TestCloneAll(t *testing.T) {
	tasks := []*Task{
		{ID: "1", Name: "A"},
		nil,
		{ID: "2", Name: "B", Checked: StringPtr("on")},
	}

	snapshot := CloneAll(tasks)
	require.Len(t, snapshot, 2)

	tasks[0].Name = "mutated"
	*tasks[2].Checked = "mutated"
	assert.Equal(t, "A", snapshot[0].Name)
	assert.Equal(t, "on", *snapshot[1].Checked)
}

func TestTask_String(t *testing.T) {
	assert.Equal(t, "My Task", Task{Name: "My Task"}.String())
}
