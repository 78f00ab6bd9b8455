package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStateMachineHappyPath(t *testing.T) {
	task := NewTask("wp_status", nil, "")
	assert.Equal(t, TaskQueued, task.State)

	require.NoError(t, task.Transition(TaskInProgress))
	require.NoError(t, task.Transition(TaskSucceeded))
	assert.True(t, task.State.IsTerminal())
}

func TestTaskStateMachineRejectsSkippingInProgress(t *testing.T) {
	task := NewTask("wp_status", nil, "")
	err := task.Transition(TaskSucceeded)
	assert.Error(t, err)
	assert.Equal(t, TaskQueued, task.State)
}

func TestTaskStateMachineTerminalIsFinal(t *testing.T) {
	task := NewTask("wp_status", nil, "")
	require.NoError(t, task.Transition(TaskInProgress))
	require.NoError(t, task.Transition(TaskFailed))

	assert.Error(t, task.Transition(TaskInProgress))
	assert.Error(t, task.Transition(TaskSucceeded))
}

func TestTaskViewOmitsEmptyFields(t *testing.T) {
	task := NewTask("wp_status", map[string]any{"site_id": "x"}, "")
	view := task.View()
	assert.Equal(t, task.ID.String(), view.TaskID)
	assert.Equal(t, TaskQueued, view.State)
	assert.Nil(t, view.Result)
	assert.Empty(t, view.Info)
}
