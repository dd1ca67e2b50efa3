package postgresql

import (
	"fmt"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/app/server/datasource"
	"github.com/quarrydb/native-connector-go/common"
)

var _ datasource.TypeMapper = (*typeMapper)(nil)

type typeMapper struct{}

func (typeMapper) SQLTypeToColumn(columnName, typeName string) (*api.ColumnMetadata, error) {
	var t api.Type

	// Type names as they appear in information_schema.columns.
	switch typeName {
	case "boolean", "bool":
		t = api.TypeBoolean
	case "smallint", "int2", "smallserial", "serial2",
		"integer", "int", "int4", "serial", "serial4",
		"bigint", "int8", "bigserial", "serial8":
		t = api.TypeInt64
	case "real", "float4", "double precision", "float8":
		t = api.TypeDouble
	case "character", "character varying", "text":
		t = api.TypeString
	case "bytea":
		t = api.TypeBytes
	case "timestamp without time zone", "timestamp with time zone":
		t = api.TypeTimestamp
	default:
		return nil, fmt.Errorf("convert type '%s': %w", typeName, common.ErrDataTypeNotSupported)
	}

	return &api.ColumnMetadata{Name: columnName, Type: t}, nil
}

func NewTypeMapper() datasource.TypeMapper { return typeMapper{} }
