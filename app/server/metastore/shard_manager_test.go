package metastore

import (
	"context"
	"sort"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrydb/native-connector-go/common"
)

func newTestShardManager(t *testing.T) (*ShardManager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	return NewShardManager(common.NewTestLogger(t), db), mock
}

func TestCommitTable(t *testing.T) {
	m, mock := newTestShardManager(t)

	first := uuid.New()
	second := uuid.New()

	shards := map[uuid.UUID]string{
		first:  "node-1",
		second: "node-1",
	}

	// Statements run in sorted shard UUID order.
	ordered := []uuid.UUID{first, second}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].String() < ordered[j].String() })

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO nodes").
		WithArgs("node-1").
		WillReturnRows(sqlmock.NewRows([]string{"node_id"}).AddRow(5))

	for i, shardUUID := range ordered {
		mock.ExpectQuery("INSERT INTO shards").
			WithArgs(shardUUID.String(), int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"shard_id"}).AddRow(100 + i))
		mock.ExpectExec("INSERT INTO shard_nodes").
			WithArgs(int64(100+i), int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	mock.ExpectCommit()

	require.NoError(t, m.CommitTable(context.Background(), 42, shards))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitTableEmptyShardSet(t *testing.T) {
	m, _ := newTestShardManager(t)

	err := m.CommitTable(context.Background(), 42, nil)
	require.ErrorIs(t, err, common.ErrInvalidRequest)
}

func TestCommitTableDuplicateShard(t *testing.T) {
	m, mock := newTestShardManager(t)

	shardUUID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO nodes").
		WithArgs("node-1").
		WillReturnRows(sqlmock.NewRows([]string{"node_id"}).AddRow(5))
	mock.ExpectQuery("INSERT INTO shards").
		WithArgs(shardUUID.String(), int64(42)).
		WillReturnError(uniqueViolation())
	mock.ExpectRollback()

	err := m.CommitTable(context.Background(), 42, map[uuid.UUID]string{shardUUID: "node-1"})
	require.ErrorIs(t, err, common.ErrShardAlreadyCommitted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShardNodes(t *testing.T) {
	m, mock := newTestShardManager(t)

	first := uuid.New()
	second := uuid.New()

	mock.ExpectQuery("SELECT s.shard_uuid, n.node_identifier FROM shards s").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"shard_uuid", "node_identifier"}).
			AddRow(first.String(), "node-1").
			AddRow(second.String(), "node-2"))

	shardNodes, err := m.ShardNodes(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, shardNodes, 2)
	assert.Equal(t, first, shardNodes[0].ShardUUID)
	assert.Equal(t, "node-1", shardNodes[0].NodeIdentifier)
	assert.Equal(t, second, shardNodes[1].ShardUUID)
	assert.Equal(t, "node-2", shardNodes[1].NodeIdentifier)
	require.NoError(t, mock.ExpectationsWereMet())
}
