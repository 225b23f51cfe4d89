package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskStatus(t *testing.T) {
	for _, known := range AllTaskStatuses {
		status, err := ParseTaskStatus(string(known))
		require.NoError(t, err)
		assert.Equal(t, known, status)
	}

	_, err := ParseTaskStatus("archived")
	require.Error(t, err)
	_, err = ParseTaskStatus("")
	require.Error(t, err)
	_, err = ParseTaskStatus("Pending")
	require.Error(t, err, "statuses are lowercase")
}

func TestTaskStatusTransitions(t *testing.T) {
	assert.True(t, TaskStatusPending.CanTransition(TaskStatusProcessing))
	assert.True(t, TaskStatusPending.CanTransition(TaskStatusCompleted))
	assert.True(t, TaskStatusProcessing.CanTransition(TaskStatusFailed))
	assert.False(t, TaskStatusCompleted.CanTransition(TaskStatusPending))
	assert.False(t, TaskStatusFailed.CanTransition(TaskStatusProcessing))
}

func TestTaskStatusTerminal(t *testing.T) {
	assert.False(t, TaskStatusPending.Terminal())
	assert.False(t, TaskStatusProcessing.Terminal())
	assert.True(t, TaskStatusCompleted.Terminal())
	assert.True(t, TaskStatusFailed.Terminal())
}
