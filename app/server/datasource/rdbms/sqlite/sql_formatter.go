package sqlite

import (
	"fmt"
	"strings"

	"github.com/quarrydb/native-connector-go/app/api"
	rdbms_utils "github.com/quarrydb/native-connector-go/app/server/datasource/rdbms/utils"
	"github.com/quarrydb/native-connector-go/common"
)

var _ rdbms_utils.WriteFormatter = (*sqlFormatter)(nil)

type sqlFormatter struct {
	rdbms_utils.SQLFormatterDefault
}

func (sqlFormatter) GetPlaceholder(_ int) string { return "?" }

func (sqlFormatter) SanitiseIdentifier(ident string) string {
	sanitised := strings.ReplaceAll(ident, string([]byte{0}), "")

	return `"` + strings.ReplaceAll(sanitised, `"`, `""`) + `"`
}

func (f sqlFormatter) FormatWhat(columns []string) (string, error) {
	return rdbms_utils.FormatWhatDefault(f, columns), nil
}

func (f sqlFormatter) FormatFrom(tableName string) string {
	return f.SanitiseIdentifier(tableName)
}

func (sqlFormatter) FormatType(t api.Type) (string, error) {
	switch t {
	case api.TypeBoolean:
		return "BOOLEAN", nil
	case api.TypeInt64:
		return "INTEGER", nil
	case api.TypeDouble:
		return "REAL", nil
	case api.TypeString:
		return "TEXT", nil
	case api.TypeBytes:
		return "BLOB", nil
	case api.TypeTimestamp:
		return "TIMESTAMP", nil
	default:
		return "", fmt.Errorf("type '%s': %w", t, common.ErrDataTypeNotSupported)
	}
}

func NewSQLFormatter() rdbms_utils.WriteFormatter {
	return sqlFormatter{}
}
