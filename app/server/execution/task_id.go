// Package execution holds the task-level contracts of the engine workers:
// task identity, task lifecycle states and the split assignment messages
// the coordinator sends while a query runs.
package execution

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quarrydb/native-connector-go/common"
)

// TaskID identifies a task within a stage of a query.
type TaskID struct {
	QueryID string `json:"queryId"`
	StageID int    `json:"stageId"`
	ID      int    `json:"id"`
}

func (t TaskID) String() string {
	return fmt.Sprintf("%s.%d.%d", t.QueryID, t.StageID, t.ID)
}

func ParseTaskID(s string) (TaskID, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return TaskID{}, fmt.Errorf("task id '%s': %w: want <query>.<stage>.<id>", s, common.ErrInvalidRequest)
	}

	if parts[0] == "" {
		return TaskID{}, fmt.Errorf("task id '%s': %w: empty query id", s, common.ErrInvalidRequest)
	}

	stageID, err := strconv.Atoi(parts[1])
	if err != nil {
		return TaskID{}, fmt.Errorf("task id '%s': parse stage id: %w", s, err)
	}

	id, err := strconv.Atoi(parts[2])
	if err != nil {
		return TaskID{}, fmt.Errorf("task id '%s': parse id: %w", s, err)
	}

	return TaskID{QueryID: parts[0], StageID: stageID, ID: id}, nil
}
