package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/quarrydb/native-connector-go/app/api"
	rdbms_utils "github.com/quarrydb/native-connector-go/app/server/datasource/rdbms/utils"
	"github.com/quarrydb/native-connector-go/common"
)

var _ rdbms_utils.Connection = (*Connection)(nil)

type rows struct {
	pgx.Rows
}

func (r rows) Close() error {
	r.Rows.Close()

	return nil
}

type Connection struct {
	conn        *pgx.Conn
	dsi         *api.DataSourceInstance
	tableName   string
	logger      *zap.Logger
	queryLogger common.QueryLogger
}

func (c *Connection) Close() error {
	return c.conn.Close(context.TODO())
}

func (c *Connection) Query(params *rdbms_utils.QueryParams) (rdbms_utils.Rows, error) {
	c.queryLogger.Dump(params.QueryText, params.QueryArgs.Values()...)

	out, err := c.conn.Query(params.Ctx, params.QueryText, params.QueryArgs.Values()...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	return rows{Rows: out}, nil
}

func (c *Connection) DataSourceInstance() *api.DataSourceInstance { return c.dsi }

func (c *Connection) TableName() string { return c.tableName }

func (c *Connection) Logger() *zap.Logger { return c.logger }

var _ rdbms_utils.ConnectionManager = (*connectionManager)(nil)

type connectionManager struct {
	rdbms_utils.ConnectionManagerBase
	cfg ConnectionManagerConfig
}

func (c *connectionManager) Make(params *rdbms_utils.ConnectionParams) (rdbms_utils.Connection, error) {
	dsi := params.DataSourceInstance

	connStr := "dbname=DBNAME user=USER password=PASSWORD host=HOST port=5432"
	if dsi.UseTLS {
		connStr += " sslmode=verify-full"
	} else {
		connStr += " sslmode=disable"
	}

	connCfg, err := pgx.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse connection config template: %w", err)
	}

	connCfg.Database = dsi.Database
	connCfg.Host = dsi.Endpoint.Host
	connCfg.Port = uint16(dsi.Endpoint.Port)
	connCfg.User = dsi.Credentials.Username
	connCfg.Password = dsi.Credentials.Password

	if dsi.UseTLS {
		connCfg.TLSConfig.ServerName = dsi.Endpoint.Host
	}

	openCtx, openCtxCancel := context.WithTimeout(
		params.Ctx,
		common.MustDurationFromString(c.cfg.GetOpenConnectionTimeout()),
	)
	defer openCtxCancel()

	conn, err := pgx.ConnectConfig(openCtx, connCfg)
	if err != nil {
		return nil, fmt.Errorf("connect config: %w", err)
	}

	// set schema (public by default)
	searchPath := fmt.Sprintf("set search_path=%s", SchemaFromInstance(dsi))

	if _, err := conn.Exec(openCtx, searchPath); err != nil {
		return nil, fmt.Errorf("exec: %w", err)
	}

	logger := common.AnnotateLoggerWithDataSourceInstance(params.Logger, dsi)

	return &Connection{
		conn:        conn,
		dsi:         dsi,
		tableName:   params.TableName,
		logger:      logger,
		queryLogger: c.QueryLoggerFactory.Make(logger),
	}, nil
}

func (*connectionManager) Release(ctx context.Context, logger *zap.Logger, conn rdbms_utils.Connection) {
	if err := conn.(*Connection).conn.DeallocateAll(ctx); err != nil {
		logger.Error("deallocate prepared statements", zap.Error(err))
	}

	common.LogCloserError(logger, conn, "close connection")
}

// SchemaFromInstance resolves the schema queries should run against.
func SchemaFromInstance(dsi *api.DataSourceInstance) string {
	if dsi.Schema == "" {
		return "public"
	}

	return dsi.Schema
}

type ConnectionManagerConfig interface {
	GetOpenConnectionTimeout() string
}

func NewConnectionManager(
	cfg ConnectionManagerConfig,
	base rdbms_utils.ConnectionManagerBase,
) rdbms_utils.ConnectionManager {
	return &connectionManager{
		ConnectionManagerBase: base,
		cfg:                   cfg,
	}
}
