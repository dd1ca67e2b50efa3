package utils

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/app/server/datasource"
	"github.com/quarrydb/native-connector-go/common"
)

type schemaItem struct {
	columnName string
	columnType string
	column     *api.ColumnMetadata
}

// SchemaBuilder accumulates the raw columns of an external table and
// converts them into engine column metadata, dropping the ones whose
// types have no engine representation.
type SchemaBuilder struct {
	typeMapper datasource.TypeMapper
	items      []*schemaItem
}

func NewSchemaBuilder(typeMapper datasource.TypeMapper) *SchemaBuilder {
	return &SchemaBuilder{typeMapper: typeMapper}
}

func (sb *SchemaBuilder) AddColumn(columnName, columnType string) error {
	item := &schemaItem{
		columnName: columnName,
		columnType: columnType,
	}

	var err error

	item.column, err = sb.typeMapper.SQLTypeToColumn(columnName, columnType)
	if err != nil && !errors.Is(err, common.ErrDataTypeNotSupported) {
		return fmt.Errorf("sql type to column (%s, %s): %w", columnName, columnType, err)
	}

	sb.items = append(sb.items, item)

	return nil
}

func (sb *SchemaBuilder) Build(logger *zap.Logger) ([]api.ColumnMetadata, error) {
	if len(sb.items) == 0 {
		return nil, common.ErrTableDoesNotExist
	}

	var (
		columns     []api.ColumnMetadata
		unsupported []string
	)

	for _, item := range sb.items {
		if item.column == nil {
			unsupported = append(unsupported, fmt.Sprintf("%s %s", item.columnName, item.columnType))
		} else {
			// Ordinals are 0-based, matching the catalog numbering, so a
			// discovered schema can be fed into table creation as is.
			item.column.OrdinalPosition = len(columns)
			columns = append(columns, *item.column)
		}
	}

	if len(unsupported) > 0 {
		logger.Warn(
			"the table schema was reduced because some column types are unsupported",
			zap.Strings("unsupported_columns", unsupported),
		)
	}

	if len(columns) == 0 {
		return nil, common.ErrTableHasNoColumns
	}

	return columns, nil
}
