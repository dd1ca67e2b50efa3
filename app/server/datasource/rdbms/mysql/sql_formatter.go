package mysql

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

func (sqlFormatter) GetPlaceholder(_ int) string { return "?" }

func (sqlFormatter) SanitiseIdentifier(ident string) string {
	// https://dev.mysql.com/doc/refman/8.0/en/identifiers.html
	sanitised := strings.ReplaceAll(ident, string([]byte{0}), "")

	return "`" + strings.ReplaceAll(sanitised, "`", "``") + "`"
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
		return "tinyint(1)", nil
	case api.TypeInt64:
		return "bigint", nil
	case api.TypeDouble:
		return "double", nil
	case api.TypeString:
		return "text", nil
	case api.TypeBytes:
		return "blob", nil
	case api.TypeTimestamp:
		return "timestamp", nil
	default:
		return "", fmt.Errorf("type '%s': %w", t, common.ErrDataTypeNotSupported)
	}
}

func NewSQLFormatter(cfg *config.PushdownConfig) rdbms_utils.WriteFormatter {
	return sqlFormatter{cfg: cfg}
}
