package cli

import (
	"fmt"
	"strings"
	"testing"

	"task-list/internal/errors"
	"task-list/internal/validation"
)

func TestErrorHandler_Handle(t *testing.T) {
	handler := NewErrorHandler()

	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{
			name:     "conflict uses the duplicate name message",
			err:      errors.NewDuplicateNameError("Write report", nil),
			contains: errors.DuplicateNameMessage,
		},
		{
			name:     "invalid input keeps its message",
			err:      errors.NewInvalidInputError("name", "", "a task name is required"),
			contains: "a task name is required",
		},
		{
			name:     "precondition hides internals",
			err:      errors.NewPreconditionError("task store", "connection is closed"),
			contains: errors.ServerErrorMessage,
		},
		{
			name:     "validation error lists the field",
			err:      &validation.ValidationError{Errors: []validation.FieldError{{Field: "name", Message: "name is required"}}},
			contains: "name is required",
		},
		{
			name:     "plain error is wrapped",
			err:      fmt.Errorf("disk on fire"),
			contains: "disk on fire",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := handler.Handle("save task", tt.err)
			if !strings.HasPrefix(got.Error(), "failed to save task: ") {
				t.Errorf("Handle() = %q, want operation prefix", got.Error())
			}
			if !strings.Contains(got.Error(), tt.contains) {
				t.Errorf("Handle() = %q, want it to contain %q", got.Error(), tt.contains)
			}
		})
	}
}
