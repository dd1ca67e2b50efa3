package mysql

import (
	"fmt"

	"github.com/go-mysql-org/go-mysql/client"
	"go.uber.org/zap"

	"github.com/quarrydb/native-connector-go/app/api"
	rdbms_utils "github.com/quarrydb/native-connector-go/app/server/datasource/rdbms/utils"
	"github.com/quarrydb/native-connector-go/common"
)

var _ rdbms_utils.Connection = (*Connection)(nil)

type Connection struct {
	conn        *client.Conn
	dsi         *api.DataSourceInstance
	tableName   string
	logger      *zap.Logger
	queryLogger common.QueryLogger
}

func (c *Connection) Query(params *rdbms_utils.QueryParams) (rdbms_utils.Rows, error) {
	c.queryLogger.Dump(params.QueryText, params.QueryArgs.Values()...)

	result, err := c.conn.Execute(params.QueryText, params.QueryArgs.Values()...)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}

	return &rows{result: result, idx: -1}, nil
}

func (c *Connection) DataSourceInstance() *api.DataSourceInstance { return c.dsi }

func (c *Connection) TableName() string { return c.tableName }

func (c *Connection) Logger() *zap.Logger { return c.logger }

func (c *Connection) Close() error { return c.conn.Close() }
