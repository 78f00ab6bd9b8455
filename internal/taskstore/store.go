// Package taskstore holds task lifecycle state in memory, guarded by a
// mutex the way the teacher guards its in-process alias/session state.
package taskstore

import (
	"fmt"
	"sync"

	"github.com/opsbridge/wpctl/internal/domain"
)

// Store tracks every submitted task from creation through its terminal
// state. It is safe for concurrent use by the HTTP handlers and the
// worker pool.
type Store struct {
	mu    sync.RWMutex
	tasks map[string]*domain.Task
}

// New returns an empty Store.
func New() *Store {
	return &Store{tasks: make(map[string]*domain.Task)}
}

// Create records a newly queued task.
func (s *Store) Create(t *domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID.String()] = t
}

// Lookup returns the task by ID, if known.
func (s *Store) Lookup(id string) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, false
	}
	return *t, true
}

// MarkRunning transitions a task to in_progress.
func (s *Store) MarkRunning(id string) error {
	return s.transition(id, domain.TaskInProgress, nil, nil)
}

// Complete transitions a task to succeeded with the given result.
func (s *Store) Complete(id string, result map[string]any) error {
	return s.transition(id, domain.TaskSucceeded, result, nil)
}

// Fail transitions a task to failed, recording the failure info.
func (s *Store) Fail(id string, info string) error {
	return s.transition(id, domain.TaskFailed, nil, &info)
}

func (s *Store) transition(id string, next domain.TaskState, result map[string]any, info *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return fmt.Errorf("taskstore: unknown task %s", id)
	}
	if err := t.Transition(next); err != nil {
		return err
	}
	if result != nil {
		t.Result = result
	}
	if info != nil {
		t.Info = *info
	}
	return nil
}
