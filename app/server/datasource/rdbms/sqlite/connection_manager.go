package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/quarrydb/native-connector-go/app/api"
	rdbms_utils "github.com/quarrydb/native-connector-go/app/server/datasource/rdbms/utils"
	"github.com/quarrydb/native-connector-go/common"
)

var _ rdbms_utils.Connection = (*Connection)(nil)

type Connection struct {
	db          *sql.DB
	dsi         *api.DataSourceInstance
	tableName   string
	logger      *zap.Logger
	queryLogger common.QueryLogger
}

func (c *Connection) Query(params *rdbms_utils.QueryParams) (rdbms_utils.Rows, error) {
	c.queryLogger.Dump(params.QueryText, params.QueryArgs.Values()...)

	out, err := c.db.QueryContext(params.Ctx, params.QueryText, params.QueryArgs.Values()...)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}

	return out, nil
}

func (c *Connection) DataSourceInstance() *api.DataSourceInstance { return c.dsi }

func (c *Connection) TableName() string { return c.tableName }

func (c *Connection) Logger() *zap.Logger { return c.logger }

func (c *Connection) Close() error { return c.db.Close() }

var _ rdbms_utils.ConnectionManager = (*connectionManager)(nil)

type connectionManager struct {
	rdbms_utils.ConnectionManagerBase
	cfg ConnectionManagerConfig
}

func (c *connectionManager) Make(params *rdbms_utils.ConnectionParams) (rdbms_utils.Connection, error) {
	dsi := params.DataSourceInstance

	if dsi.Path == "" {
		return nil, fmt.Errorf("sqlite: %w: missing database file path", common.ErrInvalidRequest)
	}

	db, err := sql.Open("sqlite3", dsi.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, pingCtxCancel := context.WithTimeout(
		params.Ctx,
		common.MustDurationFromString(c.cfg.GetPingConnectionTimeout()),
	)
	defer pingCtxCancel()

	if err := db.PingContext(pingCtx); err != nil {
		common.LogCloserError(params.Logger, db, "close database")

		return nil, fmt.Errorf("ping: %w", err)
	}

	logger := params.Logger.With(zap.String("data_source_kind", string(dsi.Kind)), zap.String("path", dsi.Path))

	return &Connection{
		db:          db,
		dsi:         dsi,
		tableName:   params.TableName,
		logger:      logger,
		queryLogger: c.QueryLoggerFactory.Make(logger),
	}, nil
}

func (*connectionManager) Release(_ context.Context, logger *zap.Logger, conn rdbms_utils.Connection) {
	common.LogCloserError(logger, conn, "close sqlite connection")
}

type ConnectionManagerConfig interface {
	GetPingConnectionTimeout() string
}

func NewConnectionManager(
	cfg ConnectionManagerConfig,
	base rdbms_utils.ConnectionManagerBase,
) rdbms_utils.ConnectionManager {
	return &connectionManager{ConnectionManagerBase: base, cfg: cfg}
}
