package rdbms

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/app/server/datasource"
	rdbms_utils "github.com/quarrydb/native-connector-go/app/server/datasource/rdbms/utils"
	"github.com/quarrydb/native-connector-go/app/server/utils/retry"
	"github.com/quarrydb/native-connector-go/common"
)

// Preset bundles everything needed to talk to a particular RDBMS kind.
type Preset struct {
	SQLFormatter      rdbms_utils.SQLFormatter
	ConnectionManager rdbms_utils.ConnectionManager
	TypeMapper        datasource.TypeMapper
	SchemaProvider    rdbms_utils.SchemaProvider
	SplitProvider     rdbms_utils.SplitProvider
	RetrierSet        *retry.RetrierSet
}

var _ datasource.DataSource = (*dataSourceImpl)(nil)

type dataSourceImpl struct {
	typeMapper        datasource.TypeMapper
	sqlFormatter      rdbms_utils.SQLFormatter
	connectionManager rdbms_utils.ConnectionManager
	schemaProvider    rdbms_utils.SchemaProvider
	splitProvider     rdbms_utils.SplitProvider
	retrierSet        *retry.RetrierSet
	logger            *zap.Logger
}

func (ds *dataSourceImpl) DescribeTable(
	ctx context.Context,
	logger *zap.Logger,
	request *api.DescribeTableRequest,
) (*api.DescribeTableResponse, error) {
	conn, err := ds.makeConnection(ctx, logger, &request.DataSource, request.Table)
	if err != nil {
		return nil, fmt.Errorf("make connection: %w", err)
	}

	defer ds.connectionManager.Release(ctx, logger, conn)

	columns, err := ds.schemaProvider.GetSchema(ctx, logger, conn, request)
	if err != nil {
		return nil, fmt.Errorf("get schema: %w", err)
	}

	return &api.DescribeTableResponse{Columns: columns}, nil
}

func (ds *dataSourceImpl) ListSplits(
	ctx context.Context,
	logger *zap.Logger,
	request *api.ListSplitsRequest,
	resultChan chan<- *datasource.ListSplitResult,
) error {
	if request.Select == nil {
		return fmt.Errorf("list splits: %w: missing select", common.ErrInvalidRequest)
	}

	err := ds.splitProvider.ListSplits(&rdbms_utils.ListSplitsParams{
		Ctx:                   ctx,
		Logger:                logger,
		MakeConnectionRetrier: ds.retrierSet.MakeConnection,
		ConnectionManager:     ds.connectionManager,
		Select:                request.Select,
		ResultChan:            resultChan,
	})
	if err != nil {
		return fmt.Errorf("list splits: %w", err)
	}

	return nil
}

func (ds *dataSourceImpl) MakeReadQuery(
	_ context.Context,
	logger *zap.Logger,
	split *api.Split,
) (*datasource.ReadQuery, error) {
	query, err := rdbms_utils.MakeReadQuery(logger, ds.sqlFormatter, split)
	if err != nil {
		return nil, fmt.Errorf("make read query: %w", err)
	}

	return query, nil
}

func (ds *dataSourceImpl) makeConnection(
	ctx context.Context,
	logger *zap.Logger,
	dsi *api.DataSourceInstance,
	tableName string,
) (rdbms_utils.Connection, error) {
	var conn rdbms_utils.Connection

	err := ds.retrierSet.MakeConnection.Run(ctx, logger,
		func() error {
			var makeConnErr error

			params := &rdbms_utils.ConnectionParams{
				Ctx:                ctx,
				Logger:             logger,
				DataSourceInstance: dsi,
				TableName:          tableName,
			}

			conn, makeConnErr = ds.connectionManager.Make(params)
			if makeConnErr != nil {
				return fmt.Errorf("make connection: %w", makeConnErr)
			}

			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("retry: %w", err)
	}

	return conn, nil
}

func NewDataSource(logger *zap.Logger, preset *Preset) datasource.DataSource {
	return &dataSourceImpl{
		typeMapper:        preset.TypeMapper,
		sqlFormatter:      preset.SQLFormatter,
		connectionManager: preset.ConnectionManager,
		schemaProvider:    preset.SchemaProvider,
		splitProvider:     preset.SplitProvider,
		retrierSet:        preset.RetrierSet,
		logger:            logger,
	}
}
