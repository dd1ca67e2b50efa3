package clickhouse

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/quarrydb/native-connector-go/app/api"
	rdbms_utils "github.com/quarrydb/native-connector-go/app/server/datasource/rdbms/utils"
	"github.com/quarrydb/native-connector-go/common"
)

var _ rdbms_utils.Connection = (*Connection)(nil)

type rows struct {
	driver.Rows
}

type Connection struct {
	conn        driver.Conn
	dsi         *api.DataSourceInstance
	tableName   string
	logger      *zap.Logger
	queryLogger common.QueryLogger
}

func (c *Connection) Query(params *rdbms_utils.QueryParams) (rdbms_utils.Rows, error) {
	c.queryLogger.Dump(params.QueryText, params.QueryArgs.Values()...)

	out, err := c.conn.Query(params.Ctx, params.QueryText, params.QueryArgs.Values()...)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}

	if err := out.Err(); err != nil {
		common.LogCloserError(c.logger, out, "close rows")

		return nil, fmt.Errorf("rows err: %w", err)
	}

	return rows{Rows: out}, nil
}

func (c *Connection) DataSourceInstance() *api.DataSourceInstance { return c.dsi }

func (c *Connection) TableName() string { return c.tableName }

func (c *Connection) Logger() *zap.Logger { return c.logger }

func (c *Connection) Close() error { return c.conn.Close() }

var _ rdbms_utils.ConnectionManager = (*connectionManager)(nil)

type connectionManager struct {
	rdbms_utils.ConnectionManagerBase
	cfg ConnectionManagerConfig
}

func (c *connectionManager) Make(params *rdbms_utils.ConnectionParams) (rdbms_utils.Connection, error) {
	dsi := params.DataSourceInstance

	opts := &clickhouse.Options{
		Addr: []string{common.EndpointToString(dsi.Endpoint)},
		Auth: clickhouse.Auth{
			Database: dsi.Database,
			Username: dsi.Credentials.Username,
			Password: dsi.Credentials.Password,
		},
		DialTimeout: common.MustDurationFromString(c.cfg.GetOpenConnectionTimeout()),
	}

	if dsi.UseTLS {
		opts.TLS = &tls.Config{
			ServerName: dsi.Endpoint.Host,
			MinVersion: tls.VersionTLS12,
		}
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open connection: %w", err)
	}

	pingCtx, pingCtxCancel := context.WithTimeout(
		params.Ctx,
		common.MustDurationFromString(c.cfg.GetPingConnectionTimeout()),
	)
	defer pingCtxCancel()

	if err := conn.Ping(pingCtx); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
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

func (*connectionManager) Release(_ context.Context, logger *zap.Logger, conn rdbms_utils.Connection) {
	common.LogCloserError(logger, conn, "close clickhouse connection")
}

type ConnectionManagerConfig interface {
	GetOpenConnectionTimeout() string
	GetPingConnectionTimeout() string
}

func NewConnectionManager(
	cfg ConnectionManagerConfig,
	base rdbms_utils.ConnectionManagerBase,
) rdbms_utils.ConnectionManager {
	return &connectionManager{ConnectionManagerBase: base, cfg: cfg}
}
