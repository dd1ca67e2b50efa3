package execution

import (
	"context"

	"github.com/quarrydb/native-connector-go/app/api"
)

// TaskSource is a batch of splits assigned to a plan node of a task.
// Once NoMoreSplits is set, further splits for the node are rejected.
type TaskSource struct {
	PlanNodeID   string       `json:"planNodeId"`
	Splits       []*api.Split `json:"splits"`
	NoMoreSplits bool         `json:"noMoreSplits"`
}

// OutputBufferID names an output buffer of a task.
type OutputBufferID string

// BufferResult is a page batch read from an output buffer. Token-based
// acknowledgement makes the read idempotent: re-reading a token returns
// the same pages.
type BufferResult struct {
	Token          int64    `json:"token"`
	NextToken      int64    `json:"nextToken"`
	Pages          [][]byte `json:"pages,omitempty"`
	BufferComplete bool     `json:"bufferComplete"`
}

// TaskExecution is the worker-side contract of a running task.
type TaskExecution interface {
	TaskID() TaskID
	State() *StateTracker

	// AddSources feeds new splits into the task. Adding sources to a
	// task in a terminal state is a no-op.
	AddSources(ctx context.Context, sources []*TaskSource) error

	// GetResults reads pages from an output buffer starting at token.
	GetResults(ctx context.Context, buffer OutputBufferID, token int64, maxBytes int64) (*BufferResult, error)

	// AbortResults releases an output buffer: the reader is gone and its
	// pages may be dropped.
	AbortResults(buffer OutputBufferID) error

	// Cancel stops the task, moving it into the canceled state.
	Cancel() error

	// Fail stops the task with an error, moving it into the failed state.
	Fail(err error) error

	// RecordHeartbeat marks the task as alive; tasks without recent
	// heartbeats are subject to expiry by the coordinator.
	RecordHeartbeat()
}
