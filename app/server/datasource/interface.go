// Package datasource declares the abstractions implemented by every
// system the connector can serve table metadata and splits from.
package datasource

import (
	"context"

	"go.uber.org/zap"

	"github.com/quarrydb/native-connector-go/app/api"
)

// ListSplitResult is a part of a table ready to be sent to the engine.
type ListSplitResult struct {
	Slct        *api.Select
	Description []byte
}

// ReadQuery is the query a worker node has to run against a data source
// instance in order to read a single split.
type ReadQuery struct {
	QueryText string `json:"queryText"`
	QueryArgs []any  `json:"queryArgs,omitempty"`
	// Columns actually present in the result set, in result order.
	// May differ from the requested ones if some were dropped.
	Columns []string `json:"columns,omitempty"`
}

type DataSource interface {
	// DescribeTable returns the schema of the table. The set of columns
	// may be narrower than the physical one if some types are not
	// representable in the engine's type system.
	DescribeTable(
		ctx context.Context,
		logger *zap.Logger,
		request *api.DescribeTableRequest,
	) (*api.DescribeTableResponse, error)

	// ListSplits streams the parts of the table into resultChan.
	// Implementations must not close the channel.
	ListSplits(
		ctx context.Context,
		logger *zap.Logger,
		request *api.ListSplitsRequest,
		resultChan chan<- *ListSplitResult,
	) error

	// MakeReadQuery renders the query reading a single split.
	MakeReadQuery(
		ctx context.Context,
		logger *zap.Logger,
		split *api.Split,
	) (*ReadQuery, error)
}

// TypeMapper converts the type names of an external system into engine
// column metadata. Unsupported types yield common.ErrDataTypeNotSupported.
type TypeMapper interface {
	SQLTypeToColumn(columnName, typeName string) (*api.ColumnMetadata, error)
}

// Factory resolves a data source implementation by its kind.
type Factory interface {
	Make(logger *zap.Logger, kind api.DataSourceKind) (DataSource, error)
}
