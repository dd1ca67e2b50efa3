package utils

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/common"
)

type testFormatter struct {
	SQLFormatterDefault
}

func (testFormatter) GetPlaceholder(n int) string { return fmt.Sprintf("$%d", n+1) }

func (testFormatter) SanitiseIdentifier(ident string) string { return `"` + ident + `"` }

func (f testFormatter) FormatWhat(columns []string) (string, error) {
	return FormatWhatDefault(f, columns), nil
}

func (f testFormatter) FormatFrom(tableName string) string {
	return f.SanitiseIdentifier(tableName)
}

func (testFormatter) FormatType(t api.Type) (string, error) {
	switch t {
	case api.TypeBoolean:
		return "boolean", nil
	case api.TypeInt64:
		return "bigint", nil
	case api.TypeDouble:
		return "double precision", nil
	case api.TypeString:
		return "varchar", nil
	default:
		return "", fmt.Errorf("type '%s': %w", t, common.ErrDataTypeNotSupported)
	}
}

func makeSplit(where *api.Predicate, filtering api.FilteringMode) *api.Split {
	return &api.Split{
		Select: &api.Select{
			From:      "orders",
			Columns:   []string{"id", "price"},
			Where:     where,
			Filtering: filtering,
		},
	}
}

func TestMakeReadQuery(t *testing.T) {
	logger := common.NewTestLogger(t)

	testCases := []struct {
		name         string
		split        *api.Split
		outputQuery  string
		outputArgs   []any
		errorMatcher func(t *testing.T, err error)
	}{
		{
			name:        "no where",
			split:       makeSplit(nil, ""),
			outputQuery: `SELECT "id", "price" FROM "orders"`,
		},
		{
			name: "empty column list",
			split: &api.Split{
				Select: &api.Select{From: "orders"},
			},
			outputQuery: `SELECT 0 FROM "orders"`,
		},
		{
			name: "comparison",
			split: makeSplit(&api.Predicate{
				Comparison: &api.Comparison{
					Column:   "price",
					Operator: api.ComparisonGT,
					Value:    api.TypedValue{Type: api.TypeInt64, Value: int64(42)},
				},
			}, ""),
			outputQuery: `SELECT "id", "price" FROM "orders" WHERE "price" > $1`,
			outputArgs:  []any{int64(42)},
		},
		{
			name: "between",
			split: makeSplit(&api.Predicate{
				Between: &api.Between{
					Column:   "price",
					Least:    api.TypedValue{Type: api.TypeInt64, Value: int64(10)},
					Greatest: api.TypedValue{Type: api.TypeInt64, Value: int64(20)},
				},
			}, ""),
			outputQuery: `SELECT "id", "price" FROM "orders" WHERE "price" BETWEEN $1 AND $2`,
			outputArgs:  []any{int64(10), int64(20)},
		},
		{
			name: "is null",
			split: makeSplit(&api.Predicate{
				IsNull: "comment",
			}, ""),
			outputQuery: `SELECT "id", "price" FROM "orders" WHERE "comment" IS NULL`,
		},
		{
			name: "is not null",
			split: makeSplit(&api.Predicate{
				IsNotNull: "comment",
			}, ""),
			outputQuery: `SELECT "id", "price" FROM "orders" WHERE "comment" IS NOT NULL`,
		},
		{
			name: "conjunction",
			split: makeSplit(&api.Predicate{
				Conjunction: []*api.Predicate{
					{Comparison: &api.Comparison{
						Column:   "price",
						Operator: api.ComparisonGE,
						Value:    api.TypedValue{Type: api.TypeInt64, Value: int64(10)},
					}},
					{IsNotNull: "comment"},
				},
			}, ""),
			outputQuery: `SELECT "id", "price" FROM "orders" WHERE "price" >= $1 AND "comment" IS NOT NULL`,
			outputArgs:  []any{int64(10)},
		},
		{
			name: "partial pushdown in optional mode",
			split: makeSplit(&api.Predicate{
				Conjunction: []*api.Predicate{
					{Comparison: &api.Comparison{
						Column:   "created_at",
						Operator: api.ComparisonLT,
						Value:    api.TypedValue{Type: api.TypeTimestamp, Value: "2026-01-01T00:00:00Z"},
					}},
					{Comparison: &api.Comparison{
						Column:   "price",
						Operator: api.ComparisonGT,
						Value:    api.TypedValue{Type: api.TypeInt64, Value: int64(42)},
					}},
				},
			}, api.FilteringOptional),
			outputQuery: `SELECT "id", "price" FROM "orders" WHERE "price" > $1`,
			outputArgs:  []any{int64(42)},
		},
		{
			name: "unsupported type in optional mode degrades to full scan",
			split: makeSplit(&api.Predicate{
				Comparison: &api.Comparison{
					Column:   "created_at",
					Operator: api.ComparisonLT,
					Value:    api.TypedValue{Type: api.TypeTimestamp, Value: "2026-01-01T00:00:00Z"},
				},
			}, api.FilteringOptional),
			outputQuery: `SELECT "id", "price" FROM "orders"`,
		},
		{
			name: "unsupported type in mandatory mode fails",
			split: makeSplit(&api.Predicate{
				Comparison: &api.Comparison{
					Column:   "created_at",
					Operator: api.ComparisonLT,
					Value:    api.TypedValue{Type: api.TypeTimestamp, Value: "2026-01-01T00:00:00Z"},
				},
			}, api.FilteringMandatory),
			errorMatcher: func(t *testing.T, err error) {
				require.ErrorIs(t, err, common.ErrDataTypeNotSupported)
			},
		},
		{
			name: "empty predicate in mandatory mode fails",
			split: makeSplit(&api.Predicate{}, api.FilteringMandatory),
			errorMatcher: func(t *testing.T, err error) {
				require.ErrorIs(t, err, common.ErrPredicateNotSupported)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			query, err := MakeReadQuery(logger, testFormatter{}, tc.split)

			if tc.errorMatcher != nil {
				tc.errorMatcher(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.outputQuery, query.QueryText)
			assert.Equal(t, tc.outputArgs, query.QueryArgs)
		})
	}
}
