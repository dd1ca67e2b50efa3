package utils

import (
	"fmt"
	"strings"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/common"
)

func formatValue(formatter SQLFormatter, args *QueryArgs, value api.TypedValue) (string, *QueryArgs, error) {
	if !value.Type.Valid() {
		return "", args, fmt.Errorf("value type '%s': %w", value.Type, common.ErrDataTypeNotSupported)
	}

	if !formatter.SupportsType(value.Type) {
		return "", args, fmt.Errorf("value type '%s': %w", value.Type, common.ErrDataTypeNotSupported)
	}

	return formatter.GetPlaceholder(args.Count()), args.AddTyped(value.Type, value.Value), nil
}

func formatComparison(
	formatter SQLFormatter,
	args *QueryArgs,
	comparison *api.Comparison,
) (string, *QueryArgs, error) {
	var operation string

	switch comparison.Operator {
	case api.ComparisonEQ:
		operation = " = "
	case api.ComparisonNE:
		operation = " <> "
	case api.ComparisonLT:
		operation = " < "
	case api.ComparisonLE:
		operation = " <= "
	case api.ComparisonGT:
		operation = " > "
	case api.ComparisonGE:
		operation = " >= "
	default:
		return "", args, fmt.Errorf(
			"comparison operator '%s': %w", comparison.Operator, common.ErrPredicateNotSupported)
	}

	right, args, err := formatValue(formatter, args, comparison.Value)
	if err != nil {
		return "", args, fmt.Errorf("format value: %w", err)
	}

	return formatter.SanitiseIdentifier(comparison.Column) + operation + right, args, nil
}

func formatBetween(
	formatter SQLFormatter,
	args *QueryArgs,
	between *api.Between,
) (string, *QueryArgs, error) {
	least, args, err := formatValue(formatter, args, between.Least)
	if err != nil {
		return "", args, fmt.Errorf("format least value: %w", err)
	}

	greatest, args, err := formatValue(formatter, args, between.Greatest)
	if err != nil {
		return "", args, fmt.Errorf("format greatest value: %w", err)
	}

	return fmt.Sprintf(
		"%s BETWEEN %s AND %s",
		formatter.SanitiseIdentifier(between.Column), least, greatest,
	), args, nil
}

func formatConjunction(
	formatter SQLFormatter,
	args *QueryArgs,
	predicates []*api.Predicate,
	topLevel bool,
) (string, *QueryArgs, error) {
	if len(predicates) == 0 {
		return "", args, fmt.Errorf("empty conjunction: %w", common.ErrPredicateNotSupported)
	}

	var (
		sb        strings.Builder
		succeeded int
		statement string
		err       error
	)

	for _, predicate := range predicates {
		statement, args, err = formatPredicate(formatter, args, predicate, false)
		if err != nil {
			// The top level conjunction may be rendered partially: dropping
			// a member only widens the result set, and the engine filters
			// the surplus rows itself. Nested conjunctions are rendered in
			// full or not at all.
			if !topLevel {
				return "", args, fmt.Errorf("format predicate: %w", err)
			}
		} else {
			if succeeded > 0 {
				sb.WriteString(" AND ")
			}

			sb.WriteString(statement)
			succeeded++
		}
	}

	if succeeded == 0 {
		return "", args, fmt.Errorf("format predicate: %w", err)
	}

	out := sb.String()
	if succeeded > 1 && !topLevel {
		out = "(" + out + ")"
	}

	return out, args, nil
}

func formatPredicate(
	formatter SQLFormatter,
	args *QueryArgs,
	predicate *api.Predicate,
	topLevel bool,
) (string, *QueryArgs, error) {
	switch {
	case predicate.Comparison != nil:
		return formatComparison(formatter, args, predicate.Comparison)
	case predicate.Between != nil:
		return formatBetween(formatter, args, predicate.Between)
	case predicate.IsNull != "":
		return formatter.SanitiseIdentifier(predicate.IsNull) + " IS NULL", args, nil
	case predicate.IsNotNull != "":
		return formatter.SanitiseIdentifier(predicate.IsNotNull) + " IS NOT NULL", args, nil
	case predicate.Conjunction != nil:
		return formatConjunction(formatter, args, predicate.Conjunction, topLevel)
	default:
		return "", args, fmt.Errorf("empty predicate: %w", common.ErrPredicateNotSupported)
	}
}

// FormatWhereClause renders a pushed down predicate into the text placed
// after WHERE, collecting the constant values into query arguments.
func FormatWhereClause(formatter SQLFormatter, where *api.Predicate) (string, *QueryArgs, error) {
	if where == nil {
		return "", nil, nil
	}

	clause, args, err := formatPredicate(formatter, &QueryArgs{}, where, true)
	if err != nil {
		return "", nil, err
	}

	return clause, args, nil
}
