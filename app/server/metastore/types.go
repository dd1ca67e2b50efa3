// Package metastore implements the engine's native catalog: table and
// column registration, sampled-table bookkeeping and the shard-commit
// protocol, all backed by a relational catalog database.
package metastore

import "github.com/quarrydb/native-connector-go/app/api"

// tableRow is a row of the catalog 'tables' relation.
type tableRow struct {
	TableID    int64
	SchemaName string
	TableName  string
}

// columnRow is a row of the catalog 'columns' relation.
type columnRow struct {
	ColumnID        int64
	ColumnName      string
	OrdinalPosition int
	DataType        api.Type
}

func (c *columnRow) metadata() api.ColumnMetadata {
	return api.ColumnMetadata{
		Name:            c.ColumnName,
		Type:            c.DataType,
		OrdinalPosition: c.OrdinalPosition,
		Hidden:          c.ColumnName == api.SampleWeightColumnName,
	}
}

// tableColumnRow joins a column with the table that owns it.
type tableColumnRow struct {
	Table api.SchemaTableName
	columnRow
}
