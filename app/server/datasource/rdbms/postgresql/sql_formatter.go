package postgresql

import (
	"fmt"
	"strings"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/app/server/config"
	rdbms_utils "github.com/quarrydb/native-connector-go/app/server/datasource/rdbms/utils"
	"github.com/quarrydb/native-connector-go/common"
)

var _ rdbms_utils.WriteFormatter = (*sqlFormatter)(nil)

type sqlFormatter struct {
	rdbms_utils.SQLFormatterDefault
	cfg *config.PushdownConfig
}

func (f sqlFormatter) SupportsType(t api.Type) bool {
	switch t {
	case api.TypeBoolean, api.TypeInt64, api.TypeDouble, api.TypeString, api.TypeBytes:
		return true
	case api.TypeTimestamp:
		return f.cfg.EnableTimestampPushdown
	default:
		return false
	}
}

func (sqlFormatter) GetPlaceholder(n int) string {
	return fmt.Sprintf("$%d", n+1)
}

func (sqlFormatter) SanitiseIdentifier(ident string) string {
	// https://www.postgresql.org/docs/current/sql-syntax-lexical.html#SQL-SYNTAX-IDENTIFIERS
	sanitizedIdent := strings.ReplaceAll(ident, string([]byte{0}), "")

	sanitizedIdent = `"` + strings.ReplaceAll(sanitizedIdent, `"`, `""`) + `"`

	return sanitizedIdent
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
		return "boolean", nil
	case api.TypeInt64:
		return "bigint", nil
	case api.TypeDouble:
		return "double precision", nil
	case api.TypeString:
		return "varchar", nil
	case api.TypeBytes:
		return "bytea", nil
	case api.TypeTimestamp:
		return "timestamp", nil
	default:
		return "", fmt.Errorf("type '%s': %w", t, common.ErrDataTypeNotSupported)
	}
}

func NewSQLFormatter(cfg *config.PushdownConfig) rdbms_utils.WriteFormatter {
	return sqlFormatter{cfg: cfg}
}
