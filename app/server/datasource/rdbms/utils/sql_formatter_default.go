package utils

import (
	"fmt"
	"strings"

	"github.com/quarrydb/native-connector-go/app/api"
)

// SQLFormatterDefault contains the most general implementations of some of
// SQLFormatter methods reflecting "standard" SQL that can be met.
type SQLFormatterDefault struct{}

func (SQLFormatterDefault) SupportsType(t api.Type) bool {
	switch t {
	case api.TypeBoolean, api.TypeInt64, api.TypeDouble, api.TypeString:
		return true
	default:
		return false
	}
}

// FormatWhatDefault renders the SELECT clause out of sanitised column
// names. An empty column list degenerates into COUNT-style reading.
func FormatWhatDefault(formatter SQLFormatter, columns []string) string {
	if len(columns) == 0 {
		return "0"
	}

	sanitised := make([]string, 0, len(columns))
	for _, column := range columns {
		sanitised = append(sanitised, formatter.SanitiseIdentifier(column))
	}

	return strings.Join(sanitised, ", ")
}

// RenderSelectQueryText default implementation doesn't take into account splitting.
func (SQLFormatterDefault) RenderSelectQueryText(
	parts *SelectQueryParts,
	_ *api.Split,
) (string, error) {
	var sb strings.Builder

	sb.WriteString("SELECT ")
	sb.WriteString(parts.SelectClause)
	sb.WriteString(" FROM ")
	sb.WriteString(parts.FromClause)

	if parts.WhereClause != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(parts.WhereClause)
	}

	return sb.String(), nil
}

// GetPlaceholderDefault renders the '?' placeholder accepted by most drivers.
func GetPlaceholderDefault(_ int) string { return "?" }

// SanitiseIdentifierDefault quotes an identifier with backticks.
func SanitiseIdentifierDefault(ident string) string {
	// Null bytes have no place in identifiers whatever the dialect.
	sanitised := strings.ReplaceAll(ident, string([]byte{0}), "")

	return fmt.Sprintf("`%s`", strings.ReplaceAll(sanitised, "`", "``"))
}
