package utils

import (
	"context"

	"go.uber.org/zap"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/app/server/datasource"
	"github.com/quarrydb/native-connector-go/app/server/utils/retry"
	"github.com/quarrydb/native-connector-go/common"
)

type QueryParams struct {
	Ctx       context.Context
	Logger    *zap.Logger
	QueryText string
	QueryArgs *QueryArgs
}

type Connection interface {
	// Query runs a query on a specific connection.
	Query(params *QueryParams) (Rows, error)
	// DataSourceInstance comprehensively describing the target of the connection.
	DataSourceInstance() *api.DataSourceInstance
	// The name of a table that will be read via this connection.
	TableName() string
	// Annotated logger that should be used to log all the events related
	// to the particular data source instance.
	Logger() *zap.Logger
	// Close terminates network connections.
	Close() error
}

type Rows interface {
	Close() error
	Err() error
	Next() bool
	Scan(dest ...any) error
}

type ConnectionParams struct {
	Ctx                context.Context         // mandatory
	Logger             *zap.Logger             // mandatory
	DataSourceInstance *api.DataSourceInstance // mandatory
	TableName          string                  // mandatory
}

type ConnectionManager interface {
	Make(params *ConnectionParams) (Connection, error)
	Release(ctx context.Context, logger *zap.Logger, conn Connection)
}

type ConnectionManagerBase struct {
	QueryLoggerFactory common.QueryLoggerFactory
}

type SelectQueryParts struct {
	SelectClause string
	FromClause   string
	WhereClause  string
}

type SQLFormatter interface {
	// Get placeholder for n'th argument (starting from 0) for prepared statement
	GetPlaceholder(n int) string
	// Sanitize names of databases, tables, columns, views, schemas
	SanitiseIdentifier(ident string) string
	// Reports whether constants of the given type may appear in a
	// pushed down predicate.
	SupportsType(t api.Type) bool
	// FormatWhat builds a substring containing the SELECT clause.
	FormatWhat(columns []string) (string, error)
	// FormatFrom builds a substring containing the literals
	// that must be placed after FROM (`SELECT ... FROM <this>`).
	FormatFrom(tableName string) string
	// RenderSelectQueryText composes final query text from the given clauses.
	// Particular implementation may mix-in some additional parts into the query.
	RenderSelectQueryText(parts *SelectQueryParts, split *api.Split) (string, error)
}

type SchemaProvider interface {
	GetSchema(
		ctx context.Context,
		logger *zap.Logger,
		conn Connection,
		request *api.DescribeTableRequest,
	) ([]api.ColumnMetadata, error)
}

type ListSplitsParams struct {
	Ctx                   context.Context
	Logger                *zap.Logger
	MakeConnectionRetrier retry.Retrier
	ConnectionManager     ConnectionManager
	Select                *api.Select
	// Interface implementations should not close this channel, just return from the function
	// when the data is over.
	ResultChan chan<- *datasource.ListSplitResult
}

// SplitProvider generates a stream of splits, the descriptions of the
// readable parts of a large external table.
type SplitProvider interface {
	ListSplits(*ListSplitsParams) error
}
