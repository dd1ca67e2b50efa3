package api

// DataSourceKind discriminates the external systems the connector can
// read metadata and splits from. KindNative is the engine's own
// shard-based storage.
type DataSourceKind string

const (
	KindNative     DataSourceKind = "native"
	KindPostgreSQL DataSourceKind = "postgresql"
	KindMySQL      DataSourceKind = "mysql"
	KindClickHouse DataSourceKind = "clickhouse"
	KindSQLite     DataSourceKind = "sqlite"
)

type Endpoint struct {
	Host string `json:"host"`
	Port uint32 `json:"port"`
}

type Credentials struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// DataSourceInstance comprehensively describes the target of a connection.
type DataSourceInstance struct {
	Kind        DataSourceKind `json:"kind"`
	Endpoint    Endpoint       `json:"endpoint"`
	Database    string         `json:"database,omitempty"`
	Schema      string         `json:"schema,omitempty"`
	Credentials Credentials    `json:"credentials,omitempty"`
	UseTLS      bool           `json:"useTls,omitempty"`

	// Path of the database file for embedded engines (sqlite).
	Path string `json:"path,omitempty"`
}

type DescribeTableRequest struct {
	DataSource DataSourceInstance `json:"dataSource"`
	Table      string             `json:"table"`
}

type DescribeTableResponse struct {
	Columns []ColumnMetadata `json:"columns"`
}
