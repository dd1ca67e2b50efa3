package execution

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrydb/native-connector-go/common"
)

func TestParseTaskID(t *testing.T) {
	taskID, err := ParseTaskID("20260826_123456_00042_abcde.3.7")
	require.NoError(t, err)
	assert.Equal(t, "20260826_123456_00042_abcde", taskID.QueryID)
	assert.Equal(t, 3, taskID.StageID)
	assert.Equal(t, 7, taskID.ID)
	assert.Equal(t, "20260826_123456_00042_abcde.3.7", taskID.String())
}

func TestParseTaskIDInvalid(t *testing.T) {
	for _, s := range []string{"", "q", "q.1", "q.1.2.3", ".1.2", "q.x.2", "q.1.x"} {
		t.Run(s, func(t *testing.T) {
			_, err := ParseTaskID(s)
			require.Error(t, err)
		})
	}
}

func TestStateTrackerTransitions(t *testing.T) {
	tracker := NewStateTracker()
	assert.Equal(t, TaskPlanned, tracker.State())

	require.NoError(t, tracker.Transition(TaskRunning))
	assert.Equal(t, TaskRunning, tracker.State())

	require.NoError(t, tracker.Transition(TaskFinished))
	assert.True(t, tracker.State().Done())

	// Terminal states are sticky.
	err := tracker.Transition(TaskFailed)
	require.ErrorIs(t, err, common.ErrInvariantViolation)
	assert.Equal(t, TaskFinished, tracker.State())
}

func TestStateTrackerSelfTransition(t *testing.T) {
	tracker := NewStateTracker()
	require.NoError(t, tracker.Transition(TaskRunning))
	require.NoError(t, tracker.Transition(TaskRunning))
	assert.Equal(t, TaskRunning, tracker.State())
}

func TestStateTrackerSkipRunning(t *testing.T) {
	// A task may be canceled before it ever starts running.
	tracker := NewStateTracker()
	require.NoError(t, tracker.Transition(TaskCanceled))
	assert.Equal(t, TaskCanceled, tracker.State())
}

func TestWaitForStateChange(t *testing.T) {
	tracker := NewStateTracker()

	done := make(chan TaskState, 1)

	go func() {
		state, err := tracker.WaitForStateChange(context.Background(), TaskPlanned)
		if err == nil {
			done <- state
		}
	}()

	// Give the waiter a chance to block first.
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, tracker.Transition(TaskRunning))

	select {
	case state := <-done:
		assert.Equal(t, TaskRunning, state)
	case <-time.After(time.Second):
		t.Fatal("waiter did not wake up")
	}
}

func TestWaitForStateChangeImmediate(t *testing.T) {
	tracker := NewStateTracker()
	require.NoError(t, tracker.Transition(TaskRunning))

	state, err := tracker.WaitForStateChange(context.Background(), TaskPlanned)
	require.NoError(t, err)
	assert.Equal(t, TaskRunning, state)
}

func TestWaitForStateChangeContextExpiry(t *testing.T) {
	tracker := NewStateTracker()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	state, err := tracker.WaitForStateChange(ctx, TaskPlanned)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, TaskPlanned, state)
}
