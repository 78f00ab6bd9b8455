package taskstore

import (
	"testing"

	"github.com/opsbridge/wpctl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLifecycle(t *testing.T) {
	s := New()
	task := domain.NewTask("wp_status", map[string]any{"site_id": "abc"}, "")
	s.Create(&task)

	got, ok := s.Lookup(task.ID.String())
	require.True(t, ok)
	assert.Equal(t, domain.TaskQueued, got.State)

	require.NoError(t, s.MarkRunning(task.ID.String()))
	got, _ = s.Lookup(task.ID.String())
	assert.Equal(t, domain.TaskInProgress, got.State)

	require.NoError(t, s.Complete(task.ID.String(), map[string]any{"ok": true}))
	got, _ = s.Lookup(task.ID.String())
	assert.Equal(t, domain.TaskSucceeded, got.State)
	assert.Equal(t, map[string]any{"ok": true}, got.Result)
}

func TestStoreIllegalTransition(t *testing.T) {
	s := New()
	task := domain.NewTask("wp_status", nil, "")
	s.Create(&task)

	err := s.Complete(task.ID.String(), nil)
	assert.Error(t, err)
}

func TestStoreUnknownTask(t *testing.T) {
	s := New()
	_, ok := s.Lookup("does-not-exist")
	assert.False(t, ok)

	err := s.MarkRunning("does-not-exist")
	assert.Error(t, err)
}

func TestStoreTerminalIsFinal(t *testing.T) {
	s := New()
	task := domain.NewTask("wp_status", nil, "")
	s.Create(&task)
	require.NoError(t, s.MarkRunning(task.ID.String()))
	require.NoError(t, s.Fail(task.ID.String(), "boom"))

	err := s.MarkRunning(task.ID.String())
	assert.Error(t, err)
}
