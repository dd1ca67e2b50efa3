package native

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrydb/native-connector-go/app/api"
	rdbms_utils "github.com/quarrydb/native-connector-go/app/server/datasource/rdbms/utils"
	"github.com/quarrydb/native-connector-go/common"
)

func TestShardTableName(t *testing.T) {
	shardUUID := uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")
	assert.Equal(t, "shard_123e4567e89b12d3a456426614174000", ShardTableName(shardUUID))
}

func TestRenderSelectQueryTextTargetsShard(t *testing.T) {
	logger := common.NewTestLogger(t)

	shardUUID := uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")

	description, err := json.Marshal(&api.NativeSplitDescription{
		ShardUUID:       shardUUID.String(),
		NodeIdentifiers: []string{"node-1"},
	})
	require.NoError(t, err)

	split := &api.Split{
		Select: &api.Select{
			From:    "orders",
			Columns: []string{"id", "price"},
			Where: &api.Predicate{
				Comparison: &api.Comparison{
					Column:   "price",
					Operator: api.ComparisonGT,
					Value:    api.TypedValue{Type: api.TypeDouble, Value: 9.99},
				},
			},
		},
		Description: description,
	}

	query, err := rdbms_utils.MakeReadQuery(logger, sqlFormatter{}, split)
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "id", "price" FROM "shard_123e4567e89b12d3a456426614174000" WHERE "price" > $1`,
		query.QueryText,
	)
	assert.Equal(t, []any{9.99}, query.QueryArgs)
}

func TestRenderSelectQueryTextWithoutDescription(t *testing.T) {
	logger := common.NewTestLogger(t)

	split := &api.Split{
		Select: &api.Select{
			From:    "orders",
			Columns: []string{"id"},
		},
	}

	query, err := rdbms_utils.MakeReadQuery(logger, sqlFormatter{}, split)
	require.NoError(t, err)
	assert.Equal(t, `SELECT "id" FROM "orders"`, query.QueryText)
}

func TestRenderSelectQueryTextBadDescription(t *testing.T) {
	logger := common.NewTestLogger(t)

	split := &api.Split{
		Select: &api.Select{
			From:    "orders",
			Columns: []string{"id"},
		},
		Description: json.RawMessage(`{"shardUuid": "not-a-uuid"}`),
	}

	_, err := rdbms_utils.MakeReadQuery(logger, sqlFormatter{}, split)
	require.Error(t, err)
}
