package utils

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/app/server/datasource"
)

// MakeReadQuery renders the query a worker has to run in order to read
// a single split of an external table.
func MakeReadQuery(
	logger *zap.Logger,
	formatter SQLFormatter,
	split *api.Split,
) (*datasource.ReadQuery, error) {
	slct := split.Select
	if slct == nil {
		return nil, fmt.Errorf("split contains no select")
	}

	parts := &SelectQueryParts{
		FromClause: formatter.FormatFrom(slct.From),
	}

	selectClause, err := formatter.FormatWhat(slct.Columns)
	if err != nil {
		return nil, fmt.Errorf("format what: %w", err)
	}

	parts.SelectClause = selectClause

	var queryArgs *QueryArgs

	if slct.Where != nil {
		var clause string

		clause, queryArgs, err = FormatWhereClause(formatter, slct.Where)
		if err != nil {
			switch slct.Filtering {
			case "", api.FilteringOptional:
				// Pushdown errors are suppressed in this mode. The source is
				// scanned in full and the engine filters the rows itself.
				logger.Warn("failed to format WHERE clause", zap.Error(err))
			case api.FilteringMandatory:
				return nil, fmt.Errorf("format WHERE clause: %w", err)
			default:
				return nil, fmt.Errorf("unknown filtering mode: %s", slct.Filtering)
			}
		} else {
			parts.WhereClause = clause
		}
	}

	queryText, err := formatter.RenderSelectQueryText(parts, split)
	if err != nil {
		return nil, fmt.Errorf("render select query text: %w", err)
	}

	return &datasource.ReadQuery{
		QueryText: queryText,
		QueryArgs: queryArgs.Values(),
		Columns:   slct.Columns,
	}, nil
}
