package clickhouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/app/server/config"
	rdbms_utils "github.com/quarrydb/native-connector-go/app/server/datasource/rdbms/utils"
	"github.com/quarrydb/native-connector-go/common"
)

func TestMakeReadQuery(t *testing.T) {
	logger := common.NewTestLogger(t)
	formatter := NewSQLFormatter(&config.PushdownConfig{})

	split := &api.Split{
		Select: &api.Select{
			From:    "events",
			Columns: []string{"id", "payload"},
			Where: &api.Predicate{
				Comparison: &api.Comparison{
					Column:   "id",
					Operator: api.ComparisonGE,
					Value:    api.TypedValue{Type: api.TypeInt64, Value: int64(100)},
				},
			},
		},
	}

	query, err := rdbms_utils.MakeReadQuery(logger, formatter, split)
	require.NoError(t, err)
	assert.Equal(t, "SELECT `id`, `payload` FROM `events` WHERE `id` >= ?", query.QueryText)
	assert.Equal(t, []any{int64(100)}, query.QueryArgs)
}

func TestTypeMapper(t *testing.T) {
	tm := NewTypeMapper()

	testCases := []struct {
		typeName string
		expected api.Type
	}{
		{"Bool", api.TypeBoolean},
		{"Int32", api.TypeInt64},
		{"UInt16", api.TypeInt64},
		{"Nullable(Int64)", api.TypeInt64},
		{"Float64", api.TypeDouble},
		{"String", api.TypeString},
		{"FixedString(16)", api.TypeString},
		{"DateTime64(6)", api.TypeTimestamp},
	}

	for _, tc := range testCases {
		t.Run(tc.typeName, func(t *testing.T) {
			column, err := tm.SQLTypeToColumn("col", tc.typeName)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, column.Type)
		})
	}

	// UInt64 does not fit into a signed bigint.
	_, err := tm.SQLTypeToColumn("col", "UInt64")
	require.ErrorIs(t, err, common.ErrDataTypeNotSupported)

	_, err = tm.SQLTypeToColumn("col", "Array(Int32)")
	require.ErrorIs(t, err, common.ErrDataTypeNotSupported)
}
