package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/common"
)

func TestMakeTemporaryTableName(t *testing.T) {
	name := MakeTemporaryTableName()
	assert.True(t, strings.HasPrefix(name, "tmp_"))
	assert.NotContains(t, name, "-")
	assert.NotEqual(t, name, MakeTemporaryTableName())
}

func TestMakeCreateTableQuery(t *testing.T) {
	query, err := MakeCreateTableQuery(testFormatter{}, "orders", []api.ColumnMetadata{
		{Name: "id", Type: api.TypeInt64},
		{Name: "price", Type: api.TypeDouble},
		{Name: "comment", Type: api.TypeString},
	})
	require.NoError(t, err)
	assert.Equal(t,
		`CREATE TABLE "orders" ("id" bigint, "price" double precision, "comment" varchar)`,
		query,
	)
}

func TestMakeCreateTableQueryNoColumns(t *testing.T) {
	_, err := MakeCreateTableQuery(testFormatter{}, "orders", nil)
	require.ErrorIs(t, err, common.ErrTableHasNoColumns)
}

func TestMakeCreateTableQueryUnsupportedType(t *testing.T) {
	_, err := MakeCreateTableQuery(testFormatter{}, "orders", []api.ColumnMetadata{
		{Name: "payload", Type: api.TypeBytes},
	})
	require.ErrorIs(t, err, common.ErrDataTypeNotSupported)
}

func TestMakeInsertQuery(t *testing.T) {
	query, err := MakeInsertQuery(testFormatter{}, "orders", []string{"id", "price"})
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "orders" ("id", "price") VALUES ($1, $2)`, query)
}

func TestMakeRenameTableQuery(t *testing.T) {
	query := MakeRenameTableQuery(testFormatter{}, "tmp_abc", "orders")
	assert.Equal(t, `ALTER TABLE "tmp_abc" RENAME TO "orders"`, query)
}
