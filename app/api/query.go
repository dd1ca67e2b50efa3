package api

import "encoding/json"

// ComparisonOperator enumerates the predicate comparisons that can be
// pushed down to a data source.
type ComparisonOperator string

const (
	ComparisonEQ ComparisonOperator = "EQ"
	ComparisonNE ComparisonOperator = "NE"
	ComparisonLT ComparisonOperator = "LT"
	ComparisonLE ComparisonOperator = "LE"
	ComparisonGT ComparisonOperator = "GT"
	ComparisonGE ComparisonOperator = "GE"
)

type TypedValue struct {
	Type  Type `json:"type"`
	Value any  `json:"value"`
}

type Comparison struct {
	Column   string             `json:"column"`
	Operator ComparisonOperator `json:"operator"`
	Value    TypedValue         `json:"value"`
}

type Between struct {
	Column   string     `json:"column"`
	Least    TypedValue `json:"least"`
	Greatest TypedValue `json:"greatest"`
}

// Predicate is a sum type: exactly one field is set. Conjunction combines
// sub-predicates with AND.
type Predicate struct {
	Comparison  *Comparison  `json:"comparison,omitempty"`
	Between     *Between     `json:"between,omitempty"`
	IsNull      string       `json:"isNull,omitempty"`
	IsNotNull   string       `json:"isNotNull,omitempty"`
	Conjunction []*Predicate `json:"conjunction,omitempty"`
}

// FilteringMode controls what happens when a predicate cannot be rendered
// by a data source.
type FilteringMode string

const (
	// FilteringOptional suppresses pushdown errors: the source is scanned
	// in full and the engine filters the rows itself.
	FilteringOptional FilteringMode = "optional"
	// FilteringMandatory fails the request on unsupported predicates.
	FilteringMandatory FilteringMode = "mandatory"
)

// Select describes the reading part of a query fragment addressed to a
// single table of a single data source instance.
type Select struct {
	DataSource DataSourceInstance `json:"dataSource"`
	From       string             `json:"from"`
	Columns    []string           `json:"columns"`
	Where      *Predicate         `json:"where,omitempty"`
	Filtering  FilteringMode      `json:"filtering,omitempty"`
}

// Split is a readable part of a large table. Description is a source
// specific payload; for native tables it is a NativeSplitDescription.
type Split struct {
	Select      *Select         `json:"select"`
	Description json.RawMessage `json:"description,omitempty"`
}

// NativeSplitDescription pins a committed shard to the nodes that hold it.
type NativeSplitDescription struct {
	ShardUUID       string   `json:"shardUuid"`
	NodeIdentifiers []string `json:"nodeIdentifiers"`
}

type ListSplitsRequest struct {
	Select *Select `json:"select"`
}

type ListSplitsResponse struct {
	Splits []*Split `json:"splits"`
}
