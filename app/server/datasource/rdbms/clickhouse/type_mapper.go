package clickhouse

import (
	"fmt"
	"strings"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/app/server/datasource"
	"github.com/quarrydb/native-connector-go/common"
)

var _ datasource.TypeMapper = (*typeMapper)(nil)

type typeMapper struct{}

func (tm typeMapper) SQLTypeToColumn(columnName, typeName string) (*api.ColumnMetadata, error) {
	// Nullability is not reflected in engine metadata, unwrap it.
	if inner, ok := strings.CutPrefix(typeName, "Nullable("); ok {
		typeName = strings.TrimSuffix(inner, ")")
	}

	var t api.Type

	switch {
	case typeName == "Bool":
		t = api.TypeBoolean
	case typeName == "Int8", typeName == "Int16", typeName == "Int32", typeName == "Int64",
		typeName == "UInt8", typeName == "UInt16", typeName == "UInt32":
		t = api.TypeInt64
	case typeName == "Float32", typeName == "Float64":
		t = api.TypeDouble
	case typeName == "String", strings.HasPrefix(typeName, "FixedString("):
		t = api.TypeString
	case typeName == "Date", typeName == "DateTime", strings.HasPrefix(typeName, "DateTime64("):
		t = api.TypeTimestamp
	default:
		return nil, fmt.Errorf("convert type '%s': %w", typeName, common.ErrDataTypeNotSupported)
	}

	return &api.ColumnMetadata{Name: columnName, Type: t}, nil
}

func NewTypeMapper() datasource.TypeMapper { return typeMapper{} }
