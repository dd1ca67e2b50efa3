// Package native serves engine-managed tables: their metadata comes from
// the catalog and their splits from the committed shard bookkeeping, one
// split per shard.
package native

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/app/server/datasource"
	rdbms_utils "github.com/quarrydb/native-connector-go/app/server/datasource/rdbms/utils"
	"github.com/quarrydb/native-connector-go/app/server/metastore"
	"github.com/quarrydb/native-connector-go/common"
)

var _ datasource.DataSource = (*DataSource)(nil)

type DataSource struct {
	metadata  *metastore.Metadata
	formatter rdbms_utils.SQLFormatter
	logger    *zap.Logger
}

func NewDataSource(logger *zap.Logger, metadata *metastore.Metadata) *DataSource {
	return &DataSource{
		metadata:  metadata,
		formatter: sqlFormatter{},
		logger:    logger,
	}
}

func (ds *DataSource) DescribeTable(
	ctx context.Context,
	logger *zap.Logger,
	request *api.DescribeTableRequest,
) (*api.DescribeTableResponse, error) {
	name, err := tableName(&request.DataSource, request.Table)
	if err != nil {
		return nil, err
	}

	handle, err := ds.metadata.GetTableHandle(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get table handle: %w", err)
	}

	meta, err := ds.metadata.GetTableMetadata(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("get table metadata: %w", err)
	}

	logger.Debug("described native table", zap.String("table", name.String()))

	return &api.DescribeTableResponse{Columns: meta.VisibleColumns()}, nil
}

func (ds *DataSource) ListSplits(
	ctx context.Context,
	logger *zap.Logger,
	request *api.ListSplitsRequest,
	resultChan chan<- *datasource.ListSplitResult,
) error {
	slct := request.Select
	if slct == nil {
		return fmt.Errorf("list splits: %w: missing select", common.ErrInvalidRequest)
	}

	name, err := tableName(&slct.DataSource, slct.From)
	if err != nil {
		return err
	}

	handle, err := ds.metadata.GetTableHandle(ctx, name)
	if err != nil {
		return fmt.Errorf("get table handle: %w", err)
	}

	shardNodes, err := ds.metadata.ShardManager().ShardNodes(ctx, handle.TableID)
	if err != nil {
		return fmt.Errorf("shard nodes: %w", err)
	}

	// A shard replicated to several nodes is still a single split.
	shardOrder := make([]uuid.UUID, 0, len(shardNodes))
	nodesByShard := make(map[uuid.UUID][]string)

	for _, sn := range shardNodes {
		if _, ok := nodesByShard[sn.ShardUUID]; !ok {
			shardOrder = append(shardOrder, sn.ShardUUID)
		}

		nodesByShard[sn.ShardUUID] = append(nodesByShard[sn.ShardUUID], sn.NodeIdentifier)
	}

	for _, shardUUID := range shardOrder {
		description, err := json.Marshal(&api.NativeSplitDescription{
			ShardUUID:       shardUUID.String(),
			NodeIdentifiers: nodesByShard[shardUUID],
		})
		if err != nil {
			return fmt.Errorf("marshal split description: %w", err)
		}

		select {
		case resultChan <- &datasource.ListSplitResult{Slct: slct, Description: description}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	logger.Info("listed native table splits",
		zap.String("table", name.String()),
		zap.String("split_count", humanize.Comma(int64(len(shardOrder)))),
	)

	return nil
}

func (ds *DataSource) MakeReadQuery(
	_ context.Context,
	logger *zap.Logger,
	split *api.Split,
) (*datasource.ReadQuery, error) {
	query, err := rdbms_utils.MakeReadQuery(logger, ds.formatter, split)
	if err != nil {
		return nil, fmt.Errorf("make read query: %w", err)
	}

	return query, nil
}

func tableName(dsi *api.DataSourceInstance, table string) (api.SchemaTableName, error) {
	name, err := api.NewSchemaTableName(dsi.Schema, table)
	if err != nil {
		return api.SchemaTableName{}, fmt.Errorf("%w: %s", common.ErrInvalidRequest, err)
	}

	return name, nil
}

// sqlFormatter renders queries addressed to local shard storage: every
// committed shard lives in a table of its own, named after the shard UUID.
type sqlFormatter struct {
	rdbms_utils.SQLFormatterDefault
}

func (sqlFormatter) GetPlaceholder(n int) string {
	return fmt.Sprintf("$%d", n+1)
}

func (sqlFormatter) SanitiseIdentifier(ident string) string {
	sanitised := strings.ReplaceAll(ident, string([]byte{0}), "")

	return `"` + strings.ReplaceAll(sanitised, `"`, `""`) + `"`
}

func (f sqlFormatter) FormatWhat(columns []string) (string, error) {
	return rdbms_utils.FormatWhatDefault(f, columns), nil
}

func (f sqlFormatter) FormatFrom(tableName string) string {
	return f.SanitiseIdentifier(tableName)
}

func (f sqlFormatter) RenderSelectQueryText(
	parts *rdbms_utils.SelectQueryParts,
	split *api.Split,
) (string, error) {
	if len(split.Description) > 0 {
		var description api.NativeSplitDescription

		if err := json.Unmarshal(split.Description, &description); err != nil {
			return "", fmt.Errorf("unmarshal split description: %w", err)
		}

		shardUUID, err := uuid.Parse(description.ShardUUID)
		if err != nil {
			return "", fmt.Errorf("parse shard uuid '%s': %w", description.ShardUUID, err)
		}

		parts = &rdbms_utils.SelectQueryParts{
			SelectClause: parts.SelectClause,
			FromClause:   f.SanitiseIdentifier(ShardTableName(shardUUID)),
			WhereClause:  parts.WhereClause,
		}
	}

	return f.SQLFormatterDefault.RenderSelectQueryText(parts, split)
}

// ShardTableName is the name of the local storage table holding the rows
// of a shard.
func ShardTableName(shardUUID uuid.UUID) string {
	return "shard_" + strings.ReplaceAll(shardUUID.String(), "-", "")
}
