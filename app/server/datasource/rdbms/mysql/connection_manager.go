package mysql

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-mysql-org/go-mysql/client"
	"go.uber.org/zap"

	rdbms_utils "github.com/quarrydb/native-connector-go/app/server/datasource/rdbms/utils"
	"github.com/quarrydb/native-connector-go/common"
)

var _ rdbms_utils.ConnectionManager = (*connectionManager)(nil)

type connectionManager struct {
	rdbms_utils.ConnectionManagerBase
	cfg ConnectionManagerConfig
	// TODO: cache of connections, remove unused connections with TTL
}

func (c *connectionManager) Make(params *rdbms_utils.ConnectionParams) (rdbms_utils.Connection, error) {
	dsi := params.DataSourceInstance

	addr := common.EndpointToString(dsi.Endpoint)
	if strings.Contains(addr, "/") {
		return nil, errors.New("mysql: unix socket connections are unsupported")
	}

	openCtx, openCtxCancel := context.WithTimeout(
		params.Ctx,
		common.MustDurationFromString(c.cfg.GetOpenConnectionTimeout()),
	)
	defer openCtxCancel()

	dialer := &net.Dialer{}

	conn, err := client.ConnectWithDialer(
		openCtx, "tcp", addr,
		dsi.Credentials.Username, dsi.Credentials.Password, dsi.Database,
		dialer.DialContext,
	)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
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
	common.LogCloserError(logger, conn, "close mysql connection")
}

type ConnectionManagerConfig interface {
	GetOpenConnectionTimeout() string
}

func NewConnectionManager(
	cfg ConnectionManagerConfig,
	base rdbms_utils.ConnectionManagerBase,
) rdbms_utils.ConnectionManager {
	return &connectionManager{ConnectionManagerBase: base, cfg: cfg}
}
