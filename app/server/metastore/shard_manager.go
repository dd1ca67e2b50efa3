package metastore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/common"
)

// ShardManager keeps the shard-to-node bookkeeping of engine-managed
// tables. Shards are immutable once committed: re-committing a shard UUID
// is an error, which makes the commit protocol safe against duplicate
// fragment delivery.
type ShardManager struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewShardManager(logger *zap.Logger, db *sql.DB) *ShardManager {
	return &ShardManager{
		db:     db,
		logger: logger,
	}
}

// CommitTable atomically records the full shard set of a freshly created
// table. Unknown node identifiers are registered on the fly.
func (m *ShardManager) CommitTable(ctx context.Context, tableID int64, shards map[uuid.UUID]string) error {
	if len(shards) == 0 {
		return fmt.Errorf("table %d: %w: empty shard set", tableID, common.ErrInvalidRequest)
	}

	err := inTransaction(ctx, m.db, func(tx *sql.Tx) error {
		nodeIDs := make(map[string]int64)

		// Sorted iteration keeps the statement order deterministic,
		// which in turn keeps lock acquisition order stable.
		shardUUIDs := make([]uuid.UUID, 0, len(shards))
		for shardUUID := range shards {
			shardUUIDs = append(shardUUIDs, shardUUID)
		}

		sort.Slice(shardUUIDs, func(i, j int) bool {
			return shardUUIDs[i].String() < shardUUIDs[j].String()
		})

		for _, shardUUID := range shardUUIDs {
			nodeIdentifier := shards[shardUUID]

			nodeID, ok := nodeIDs[nodeIdentifier]
			if !ok {
				var err error

				nodeID, err = ensureNode(ctx, tx, nodeIdentifier)
				if err != nil {
					return fmt.Errorf("ensure node '%s': %w", nodeIdentifier, err)
				}

				nodeIDs[nodeIdentifier] = nodeID
			}

			shardID, err := insertShard(ctx, tx, tableID, shardUUID)
			if err != nil {
				if common.IsConstraintViolation(err) {
					return fmt.Errorf("shard %s: %w", shardUUID, common.ErrShardAlreadyCommitted)
				}

				return fmt.Errorf("insert shard %s: %w", shardUUID, err)
			}

			if err := insertShardNode(ctx, tx, shardID, nodeID); err != nil {
				return fmt.Errorf("insert shard node: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("committed table shards",
		zap.Int64("table_id", tableID),
		zap.Int("shard_count", len(shards)),
	)

	return nil
}

// ShardNodes returns the committed shards of a table together with the
// nodes holding them, in shard commit order.
func (m *ShardManager) ShardNodes(ctx context.Context, tableID int64) ([]api.ShardNode, error) {
	query, args, err := psq.
		Select("s.shard_uuid", "n.node_identifier").
		From("shards s").
		Join("shard_nodes sn ON sn.shard_id = s.shard_id").
		Join("nodes n ON n.node_id = sn.node_id").
		Where(sq.Eq{"s.table_id": tableID}).
		OrderBy("s.shard_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query shard nodes: %w", err)
	}
	defer rows.Close()

	var shardNodes []api.ShardNode

	for rows.Next() {
		var (
			rawUUID string
			sn      api.ShardNode
		)

		if err := rows.Scan(&rawUUID, &sn.NodeIdentifier); err != nil {
			return nil, fmt.Errorf("scan shard node: %w", err)
		}

		sn.ShardUUID, err = uuid.Parse(rawUUID)
		if err != nil {
			return nil, fmt.Errorf("parse shard uuid '%s': %w", rawUUID, err)
		}

		shardNodes = append(shardNodes, sn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shard nodes: %w", err)
	}

	return shardNodes, nil
}

// dropShards removes the shard bookkeeping of a table inside the caller's
// transaction. shard_nodes rows go away via ON DELETE CASCADE.
func (m *ShardManager) dropShards(ctx context.Context, q querier, tableID int64) error {
	query, args, err := psq.
		Delete("shards").
		Where(sq.Eq{"table_id": tableID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete shards: %w", err)
	}

	return nil
}

func ensureNode(ctx context.Context, q querier, nodeIdentifier string) (int64, error) {
	query, args, err := psq.
		Insert("nodes").
		Columns("node_identifier").
		Values(nodeIdentifier).
		Suffix("ON CONFLICT (node_identifier) DO UPDATE SET node_identifier = EXCLUDED.node_identifier RETURNING node_id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var nodeID int64

	if err := q.QueryRowContext(ctx, query, args...).Scan(&nodeID); err != nil {
		return 0, fmt.Errorf("upsert node: %w", err)
	}

	return nodeID, nil
}

func insertShard(ctx context.Context, q querier, tableID int64, shardUUID uuid.UUID) (int64, error) {
	query, args, err := psq.
		Insert("shards").
		Columns("shard_uuid", "table_id").
		Values(shardUUID.String(), tableID).
		Suffix("RETURNING shard_id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var shardID int64

	if err := q.QueryRowContext(ctx, query, args...).Scan(&shardID); err != nil {
		return 0, err
	}

	return shardID, nil
}

func insertShardNode(ctx context.Context, q querier, shardID, nodeID int64) error {
	query, args, err := psq.
		Insert("shard_nodes").
		Columns("shard_id", "node_id").
		Values(shardID, nodeID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return nil
}
