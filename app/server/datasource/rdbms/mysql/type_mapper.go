package mysql

import (
	"fmt"
	"strings"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/app/server/datasource"
	"github.com/quarrydb/native-connector-go/common"
)

var _ datasource.TypeMapper = (*typeMapper)(nil)

type typeMapper struct{}

func (typeMapper) SQLTypeToColumn(columnName, typeName string) (*api.ColumnMetadata, error) {
	var t api.Type

	// Strip the display width and 'unsigned' modifiers: 'bigint(20) unsigned'.
	baseType := typeName
	if idx := strings.IndexAny(baseType, "( "); idx != -1 {
		baseType = baseType[:idx]
	}

	switch strings.ToLower(baseType) {
	case "bool", "boolean":
		t = api.TypeBoolean
	case "tinyint", "smallint", "mediumint", "int", "integer", "bigint":
		t = api.TypeInt64
	case "float", "double", "real":
		t = api.TypeDouble
	case "char", "varchar", "text", "tinytext", "mediumtext", "longtext":
		t = api.TypeString
	case "binary", "varbinary", "blob", "tinyblob", "mediumblob", "longblob":
		t = api.TypeBytes
	case "timestamp", "datetime":
		t = api.TypeTimestamp
	default:
		return nil, fmt.Errorf("convert type '%s': %w", typeName, common.ErrDataTypeNotSupported)
	}

	return &api.ColumnMetadata{Name: columnName, Type: t}, nil
}

func NewTypeMapper() datasource.TypeMapper { return typeMapper{} }
