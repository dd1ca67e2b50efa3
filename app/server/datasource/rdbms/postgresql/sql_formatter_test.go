package postgresql

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

	testCases := []struct {
		name        string
		split       *api.Split
		outputQuery string
		outputArgs  []any
	}{
		{
			name: "select all",
			split: &api.Split{
				Select: &api.Select{
					From:    "tab",
					Columns: []string{"col1", "col2"},
				},
			},
			outputQuery: `SELECT "col1", "col2" FROM "tab"`,
		},
		{
			name: "comparison pushdown",
			split: &api.Split{
				Select: &api.Select{
					From:    "tab",
					Columns: []string{"col1"},
					Where: &api.Predicate{
						Comparison: &api.Comparison{
							Column:   "col2",
							Operator: api.ComparisonEQ,
							Value:    api.TypedValue{Type: api.TypeString, Value: "value"},
						},
					},
				},
			},
			outputQuery: `SELECT "col1" FROM "tab" WHERE "col2" = $1`,
			outputArgs:  []any{"value"},
		},
		{
			name: "identifier quoting",
			split: &api.Split{
				Select: &api.Select{
					From:    `ta"b`,
					Columns: []string{"col"},
				},
			},
			outputQuery: `SELECT "col" FROM "ta""b"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			query, err := rdbms_utils.MakeReadQuery(logger, formatter, tc.split)
			require.NoError(t, err)
			assert.Equal(t, tc.outputQuery, query.QueryText)
			assert.Equal(t, tc.outputArgs, query.QueryArgs)
		})
	}
}

func TestTimestampPushdownDisabledByDefault(t *testing.T) {
	formatter := NewSQLFormatter(&config.PushdownConfig{})
	assert.False(t, formatter.SupportsType(api.TypeTimestamp))

	formatter = NewSQLFormatter(&config.PushdownConfig{EnableTimestampPushdown: true})
	assert.True(t, formatter.SupportsType(api.TypeTimestamp))
}

func TestTypeMapper(t *testing.T) {
	tm := NewTypeMapper()

	column, err := tm.SQLTypeToColumn("id", "bigint")
	require.NoError(t, err)
	assert.Equal(t, api.TypeInt64, column.Type)

	column, err = tm.SQLTypeToColumn("name", "character varying")
	require.NoError(t, err)
	assert.Equal(t, api.TypeString, column.Type)

	_, err = tm.SQLTypeToColumn("doc", "jsonb")
	require.ErrorIs(t, err, common.ErrDataTypeNotSupported)
}
