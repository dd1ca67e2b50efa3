package utils

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/common"
)

type testTypeMapper struct{}

func (testTypeMapper) SQLTypeToColumn(columnName, typeName string) (*api.ColumnMetadata, error) {
	switch typeName {
	case "bigint":
		return &api.ColumnMetadata{Name: columnName, Type: api.TypeInt64}, nil
	case "varchar":
		return &api.ColumnMetadata{Name: columnName, Type: api.TypeString}, nil
	default:
		return nil, fmt.Errorf("type '%s': %w", typeName, common.ErrDataTypeNotSupported)
	}
}

func TestSchemaBuilder(t *testing.T) {
	t.Run("ordinals start at zero", func(t *testing.T) {
		sb := NewSchemaBuilder(testTypeMapper{})
		require.NoError(t, sb.AddColumn("id", "bigint"))
		require.NoError(t, sb.AddColumn("name", "varchar"))

		columns, err := sb.Build(common.NewTestLogger(t))
		require.NoError(t, err)
		require.Len(t, columns, 2)
		assert.Equal(t, 0, columns[0].OrdinalPosition)
		assert.Equal(t, 1, columns[1].OrdinalPosition)
	})

	t.Run("dropped column keeps ordinals dense", func(t *testing.T) {
		sb := NewSchemaBuilder(testTypeMapper{})
		require.NoError(t, sb.AddColumn("id", "bigint"))
		require.NoError(t, sb.AddColumn("location", "geometry"))
		require.NoError(t, sb.AddColumn("name", "varchar"))

		columns, err := sb.Build(common.NewTestLogger(t))
		require.NoError(t, err)
		require.Len(t, columns, 2)
		assert.Equal(t, "id", columns[0].Name)
		assert.Equal(t, 0, columns[0].OrdinalPosition)
		assert.Equal(t, "name", columns[1].Name)
		assert.Equal(t, 1, columns[1].OrdinalPosition)
	})

	t.Run("no columns", func(t *testing.T) {
		sb := NewSchemaBuilder(testTypeMapper{})

		_, err := sb.Build(common.NewTestLogger(t))
		require.ErrorIs(t, err, common.ErrTableDoesNotExist)
	})

	t.Run("all columns unsupported", func(t *testing.T) {
		sb := NewSchemaBuilder(testTypeMapper{})
		require.NoError(t, sb.AddColumn("location", "geometry"))

		_, err := sb.Build(common.NewTestLogger(t))
		require.ErrorIs(t, err, common.ErrTableHasNoColumns)
	})
}
