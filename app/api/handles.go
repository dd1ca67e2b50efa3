package api

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ColumnHandle identifies a column of an engine-managed table.
type ColumnHandle struct {
	ColumnName string `json:"columnName"`
	ColumnID   int64  `json:"columnId"`
}

// TableHandle identifies an engine-managed table resolved through the
// catalog. SampleWeightColumn is set only for sampled tables.
type TableHandle struct {
	SchemaName         string        `json:"schemaName"`
	TableName          string        `json:"tableName"`
	TableID            int64         `json:"tableId"`
	SampleWeightColumn *ColumnHandle `json:"sampleWeightColumn,omitempty"`
}

func (h *TableHandle) SchemaTableName() SchemaTableName {
	return SchemaTableName{SchemaName: h.SchemaName, TableName: h.TableName}
}

// OutputTableHandle describes a table being created by a write that has
// been started but not yet committed to the catalog.
type OutputTableHandle struct {
	SchemaName         string         `json:"schemaName"`
	TableName          string         `json:"tableName"`
	ColumnHandles      []ColumnHandle `json:"columnHandles"`
	ColumnTypes        []Type         `json:"columnTypes"`
	SampleWeightColumn *ColumnHandle  `json:"sampleWeightColumn,omitempty"`
}

func (h *OutputTableHandle) String() string {
	return "native:" + h.SchemaName + "." + h.TableName
}

func (h *OutputTableHandle) SchemaTableName() SchemaTableName {
	return SchemaTableName{SchemaName: h.SchemaName, TableName: h.TableName}
}

// ShardNode is a committed shard placed on a node.
type ShardNode struct {
	ShardUUID      uuid.UUID `json:"shardUuid"`
	NodeIdentifier string    `json:"nodeIdentifier"`
}

// MakeFragment encodes the shard commit message a worker sends back to the
// coordinator after writing a shard.
func MakeFragment(nodeID string, shardUUID uuid.UUID) string {
	return nodeID + ":" + shardUUID.String()
}

// ParseFragment decodes a "<node>:<shard uuid>" fragment. UUIDs contain no
// ':', so the split is on the last occurrence; node identifiers may
// therefore contain colons (e.g. host:port forms).
func ParseFragment(fragment string) (string, uuid.UUID, error) {
	idx := strings.LastIndex(fragment, ":")
	if idx <= 0 {
		return "", uuid.Nil, fmt.Errorf("fragment '%s': missing node identifier", fragment)
	}

	nodeID, shardPart := fragment[:idx], fragment[idx+1:]

	shardUUID, err := uuid.Parse(shardPart)
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("fragment '%s': parse shard uuid: %w", fragment, err)
	}

	return nodeID, shardUUID, nil
}
