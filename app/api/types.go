// Package api holds the wire-level types shared by the metastore, the
// connector data sources and the HTTP service. Everything here marshals
// to JSON.
package api

import (
	"fmt"
	"strings"
)

// Type is an engine column type.
type Type string

const (
	TypeBoolean   Type = "boolean"
	TypeInt64     Type = "bigint"
	TypeDouble    Type = "double"
	TypeString    Type = "varchar"
	TypeBytes     Type = "varbinary"
	TypeTimestamp Type = "timestamp"
)

func (t Type) Valid() bool {
	switch t {
	case TypeBoolean, TypeInt64, TypeDouble, TypeString, TypeBytes, TypeTimestamp:
		return true
	default:
		return false
	}
}

// SampleWeightColumnName is the hidden column storing per-row sample
// weights of sampled tables. It never appears in user-visible metadata.
const SampleWeightColumnName = "$sample_weight"

type SchemaTableName struct {
	SchemaName string `json:"schemaName"`
	TableName  string `json:"tableName"`
}

func NewSchemaTableName(schemaName, tableName string) (SchemaTableName, error) {
	name := SchemaTableName{
		SchemaName: strings.ToLower(schemaName),
		TableName:  strings.ToLower(tableName),
	}

	if name.SchemaName == "" {
		return SchemaTableName{}, fmt.Errorf("empty schema name")
	}

	if name.TableName == "" {
		return SchemaTableName{}, fmt.Errorf("empty table name")
	}

	return name, nil
}

func (n SchemaTableName) String() string {
	return n.SchemaName + "." + n.TableName
}

// SchemaTablePrefix matches tables by schema and, optionally, by name.
// Empty fields act as wildcards.
type SchemaTablePrefix struct {
	SchemaName string `json:"schemaName,omitempty"`
	TableName  string `json:"tableName,omitempty"`
}

func (p SchemaTablePrefix) Matches(name SchemaTableName) bool {
	if p.SchemaName != "" && p.SchemaName != name.SchemaName {
		return false
	}

	if p.TableName != "" && p.TableName != name.TableName {
		return false
	}

	return true
}

type ColumnMetadata struct {
	Name            string `json:"name"`
	Type            Type   `json:"type"`
	OrdinalPosition int    `json:"ordinalPosition"`
	Hidden          bool   `json:"hidden,omitempty"`
}

type TableMetadata struct {
	Table   SchemaTableName  `json:"table"`
	Columns []ColumnMetadata `json:"columns"`
	Sampled bool             `json:"sampled,omitempty"`
}

// VisibleColumns filters out hidden columns such as the sample weight.
func (m *TableMetadata) VisibleColumns() []ColumnMetadata {
	out := make([]ColumnMetadata, 0, len(m.Columns))

	for _, c := range m.Columns {
		if c.Hidden || c.Name == SampleWeightColumnName {
			continue
		}

		out = append(out, c)
	}

	return out
}
