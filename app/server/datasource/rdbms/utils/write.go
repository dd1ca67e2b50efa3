package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/common"
)

// WriteFormatter extends SQLFormatter with the DDL bits needed by the
// staged write path.
type WriteFormatter interface {
	SQLFormatter
	// FormatType renders the dialect's name of an engine column type.
	FormatType(t api.Type) (string, error)
}

// Staged writes land into a temporary table first and swap it in place of
// the target on commit, so an aborted write leaves no partial data behind.

func MakeTemporaryTableName() string {
	return "tmp_" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

func MakeCreateTableQuery(
	formatter WriteFormatter,
	tableName string,
	columns []api.ColumnMetadata,
) (string, error) {
	if len(columns) == 0 {
		return "", common.ErrTableHasNoColumns
	}

	var sb strings.Builder

	sb.WriteString("CREATE TABLE ")
	sb.WriteString(formatter.FormatFrom(tableName))
	sb.WriteString(" (")

	for i, column := range columns {
		typeName, err := formatter.FormatType(column.Type)
		if err != nil {
			return "", fmt.Errorf("format type of column '%s': %w", column.Name, err)
		}

		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(formatter.SanitiseIdentifier(column.Name))
		sb.WriteString(" ")
		sb.WriteString(typeName)
	}

	sb.WriteString(")")

	return sb.String(), nil
}

func MakeInsertQuery(formatter WriteFormatter, tableName string, columns []string) (string, error) {
	if len(columns) == 0 {
		return "", common.ErrTableHasNoColumns
	}

	sanitised := make([]string, 0, len(columns))
	placeholders := make([]string, 0, len(columns))

	for i, column := range columns {
		sanitised = append(sanitised, formatter.SanitiseIdentifier(column))
		placeholders = append(placeholders, formatter.GetPlaceholder(i))
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		formatter.FormatFrom(tableName),
		strings.Join(sanitised, ", "),
		strings.Join(placeholders, ", "),
	), nil
}

func MakeRenameTableQuery(formatter WriteFormatter, from, to string) string {
	return fmt.Sprintf(
		"ALTER TABLE %s RENAME TO %s",
		formatter.FormatFrom(from),
		formatter.FormatFrom(to),
	)
}
