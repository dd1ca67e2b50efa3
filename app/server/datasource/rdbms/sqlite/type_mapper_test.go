package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/common"
)

func TestTypeMapper(t *testing.T) {
	tm := NewTypeMapper()

	testCases := []struct {
		typeName string
		expected api.Type
	}{
		{"INTEGER", api.TypeInt64},
		{"int", api.TypeInt64},
		{"BIGINT", api.TypeInt64},
		{"BOOLEAN", api.TypeBoolean},
		{"REAL", api.TypeDouble},
		{"DOUBLE PRECISION", api.TypeDouble},
		{"VARCHAR(30)", api.TypeString},
		{"TEXT", api.TypeString},
		{"BLOB", api.TypeBytes},
		{"DATETIME", api.TypeTimestamp},
	}

	for _, tc := range testCases {
		t.Run(tc.typeName, func(t *testing.T) {
			column, err := tm.SQLTypeToColumn("col", tc.typeName)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, column.Type)
		})
	}

	_, err := tm.SQLTypeToColumn("col", "NUMERIC")
	require.ErrorIs(t, err, common.ErrDataTypeNotSupported)
}

func TestSanitiseIdentifier(t *testing.T) {
	f := NewSQLFormatter()

	assert.Equal(t, `"tab"`, f.SanitiseIdentifier("tab"))
	assert.Equal(t, `"ta""b"`, f.SanitiseIdentifier(`ta"b`))
}
