package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/app/server/config"
	"github.com/quarrydb/native-connector-go/common"
)

func TestTypeMapper(t *testing.T) {
	tm := NewTypeMapper()

	testCases := []struct {
		typeName string
		expected api.Type
	}{
		{"bigint", api.TypeInt64},
		{"bigint(20) unsigned", api.TypeInt64},
		{"tinyint(1)", api.TypeInt64},
		{"BOOLEAN", api.TypeBoolean},
		{"double", api.TypeDouble},
		{"varchar(255)", api.TypeString},
		{"longtext", api.TypeString},
		{"varbinary(16)", api.TypeBytes},
		{"datetime", api.TypeTimestamp},
	}

	for _, tc := range testCases {
		t.Run(tc.typeName, func(t *testing.T) {
			column, err := tm.SQLTypeToColumn("col", tc.typeName)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, column.Type)
			assert.Equal(t, "col", column.Name)
		})
	}

	_, err := tm.SQLTypeToColumn("col", "geometry")
	require.ErrorIs(t, err, common.ErrDataTypeNotSupported)
}

func TestSanitiseIdentifier(t *testing.T) {
	f := NewSQLFormatter(&config.PushdownConfig{})

	assert.Equal(t, "`tab`", f.SanitiseIdentifier("tab"))
	assert.Equal(t, "`ta``b`", f.SanitiseIdentifier("ta`b"))
}
