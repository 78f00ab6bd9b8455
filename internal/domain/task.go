package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskState is one of the four states a Task can occupy. Transitions are
// monotonic: queued -> in_progress -> {succeeded | failed}.
type TaskState string

const (
	TaskQueued     TaskState = "queued"
	TaskInProgress TaskState = "in_progress"
	TaskSucceeded  TaskState = "succeeded"
	TaskFailed     TaskState = "failed"
)

var transitions = map[TaskState][]TaskState{
	TaskQueued:     {TaskInProgress},
	TaskInProgress: {TaskSucceeded, TaskFailed},
	TaskSucceeded:  {},
	TaskFailed:     {},
}

// CanTransitionTo reports whether moving from s to next is a legal
// transition under the state table in spec §4.3.
func (s TaskState) CanTransitionTo(next TaskState) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s is a terminal state (succeeded or failed).
func (s TaskState) IsTerminal() bool {
	return s == TaskSucceeded || s == TaskFailed
}

// Task is an identified unit of remote work tracked by the orchestrator.
type Task struct {
	ID          uuid.UUID
	Kind        string
	Kwargs      map[string]any
	ReportEmail string

	State     TaskState
	Result    map[string]any
	Info      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTask creates a freshly queued task with a new id.
func NewTask(kind string, kwargs map[string]any, reportEmail string) Task {
	now := time.Now().UTC()
	return Task{
		ID:          uuid.New(),
		Kind:        kind,
		Kwargs:      kwargs,
		ReportEmail: reportEmail,
		State:       TaskQueued,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Transition moves the task to next, returning an error if the transition
// violates the monotonic state machine.
func (t *Task) Transition(next TaskState) error {
	if !t.State.CanTransitionTo(next) {
		return fmt.Errorf("task %s: illegal transition %s -> %s", t.ID, t.State, next)
	}
	t.State = next
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// LookupView is the shape returned by the task-lookup endpoint.
type LookupView struct {
	TaskID string         `json:"task_id"`
	State  TaskState      `json:"state"`
	Result map[string]any `json:"result,omitempty"`
	Info   string         `json:"info,omitempty"`
}

// View converts a Task into its HTTP lookup representation.
func (t Task) View() LookupView {
	return LookupView{
		TaskID: t.ID.String(),
		State:  t.State,
		Result: t.Result,
		Info:   t.Info,
	}
}
