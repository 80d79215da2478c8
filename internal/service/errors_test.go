package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskServiceError_Error(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		taskID    string
		err       error
		expected  string
	}{
		{
			name:      "with task ID",
			operation: "get",
			taskID:    "abc",
			err:       ErrTaskNotFound,
			expected:  "task service get failed for task abc: task not found",
		},
		{
			name:      "without task ID",
			operation: "create",
			err:       errors.New("boom"),
			expected:  "task service create failed: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewTaskServiceError(tt.operation, tt.taskID, tt.err)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestTaskServiceError_Unwrap(t *testing.T) {
	err := notFound("remove", "abc")

	assert.True(t, errors.Is(err, ErrTaskNotFound))

	var svcErr *TaskServiceError
	assert.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "remove", svcErr.Operation)
	assert.Equal(t, "abc", svcErr.TaskID)
}
