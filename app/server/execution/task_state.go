package execution

import (
	"context"
	"fmt"
	"sync"

	"github.com/quarrydb/native-connector-go/common"
)

// TaskState is the lifecycle state of a task.
type TaskState string

const (
	TaskPlanned  TaskState = "planned"
	TaskRunning  TaskState = "running"
	TaskFinished TaskState = "finished"
	TaskCanceled TaskState = "canceled"
	TaskFailed   TaskState = "failed"
)

// Done reports whether the state is terminal.
func (s TaskState) Done() bool {
	switch s {
	case TaskFinished, TaskCanceled, TaskFailed:
		return true
	default:
		return false
	}
}

func (s TaskState) canTransitionTo(next TaskState) bool {
	if s.Done() {
		return false
	}

	switch next {
	case TaskRunning:
		return s == TaskPlanned
	case TaskFinished, TaskCanceled, TaskFailed:
		return true
	default:
		return false
	}
}

// StateTracker holds the current state of a task and wakes up the
// long-poll waiters on every transition.
type StateTracker struct {
	mu      sync.Mutex
	state   TaskState
	changed chan struct{}
}

func NewStateTracker() *StateTracker {
	return &StateTracker{
		state:   TaskPlanned,
		changed: make(chan struct{}),
	}
}

func (t *StateTracker) State() TaskState {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state
}

// Transition moves the task into the next state. Transitions out of a
// terminal state are rejected, so a finished task can never fail.
func (t *StateTracker) Transition(next TaskState) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == next {
		return nil
	}

	if !t.state.canTransitionTo(next) {
		return fmt.Errorf(
			"transition from '%s' to '%s': %w", t.state, next, common.ErrInvariantViolation)
	}

	t.state = next

	close(t.changed)
	t.changed = make(chan struct{})

	return nil
}

// WaitForStateChange blocks until the state differs from currentState or
// the context expires, returning the state observed at wakeup.
func (t *StateTracker) WaitForStateChange(ctx context.Context, currentState TaskState) (TaskState, error) {
	for {
		t.mu.Lock()
		state := t.state
		changed := t.changed
		t.mu.Unlock()

		if state != currentState {
			return state, nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return state, ctx.Err()
		}
	}
}
