package sqlite

import (
	"fmt"
	"strings"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/app/server/datasource"
	"github.com/quarrydb/native-connector-go/common"
)

var _ datasource.TypeMapper = (*typeMapper)(nil)

type typeMapper struct{}

// SQLite columns carry declared types, not storage types, so the mapping
// follows the type affinity rules of the engine.
// https://www.sqlite.org/datatype3.html#determination_of_column_affinity
func (typeMapper) SQLTypeToColumn(columnName, typeName string) (*api.ColumnMetadata, error) {
	declared := strings.ToUpper(typeName)

	var t api.Type

	switch {
	case strings.Contains(declared, "BOOL"):
		t = api.TypeBoolean
	case strings.Contains(declared, "INT"):
		t = api.TypeInt64
	case strings.Contains(declared, "REAL"),
		strings.Contains(declared, "FLOA"),
		strings.Contains(declared, "DOUB"):
		t = api.TypeDouble
	case strings.Contains(declared, "CHAR"),
		strings.Contains(declared, "CLOB"),
		strings.Contains(declared, "TEXT"):
		t = api.TypeString
	case strings.Contains(declared, "BLOB"):
		t = api.TypeBytes
	case strings.Contains(declared, "TIMESTAMP"),
		strings.Contains(declared, "DATETIME"):
		t = api.TypeTimestamp
	default:
		return nil, fmt.Errorf("convert type '%s': %w", typeName, common.ErrDataTypeNotSupported)
	}

	return &api.ColumnMetadata{Name: columnName, Type: t}, nil
}

func NewTypeMapper() datasource.TypeMapper { return typeMapper{} }
