package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress(t *testing.T) {
	assert.Zero(t, Progress(nil))

	tasks := []*Task{
		{Status: TaskCompleted},
		{Status: TaskPending},
		{Status: TaskInProgress},
		{Status: TaskCompleted},
	}
	assert.InDelta(t, 50.0, Progress(tasks), 1e-9)
}

func TestTask_IsOverdue(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	task := &Task{Status: TaskPending, DueDate: now.AddDate(0, 0, -1)}
	assert.True(t, task.IsOverdue(now))

	task.Status = TaskCompleted
	assert.False(t, task.IsOverdue(now))

	future := &Task{Status: TaskInProgress, DueDate: now.AddDate(0, 0, 1)}
	assert.False(t, future.IsOverdue(now))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, TaskInProgress.Valid())
	assert.False(t, TaskStatus("done").Valid())
	assert.True(t, PlanArchived.Valid())
	assert.False(t, PlanStatus("deleted").Valid())
}

func TestValidateProductivityScore(t *testing.T) {
	assert.NoError(t, ValidateProductivityScore(nil))

	for _, ok := range []float64{0, 5.5, 10} {
		assert.NoError(t, ValidateProductivityScore(&ok), "%g", ok)
	}
	for _, bad := range []float64{-0.1, 10.5} {
		err := ValidateProductivityScore(&bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "between 0 and 10")
	}
}
