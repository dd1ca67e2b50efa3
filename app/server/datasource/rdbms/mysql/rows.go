package mysql

import (
	"fmt"

	"github.com/go-mysql-org/go-mysql/mysql"

	rdbms_utils "github.com/quarrydb/native-connector-go/app/server/datasource/rdbms/utils"
)

var _ rdbms_utils.Rows = (*rows)(nil)

type rows struct {
	result *mysql.Result
	idx    int
}

func (r *rows) Close() error {
	r.result = nil

	return nil
}

func (*rows) Err() error { return nil }

func (r *rows) Next() bool {
	if r.result == nil {
		return false
	}

	r.idx++

	return r.idx < len(r.result.Values)
}

func (r *rows) Scan(dest ...any) error {
	if r.result == nil || r.idx < 0 || r.idx >= len(r.result.Values) {
		return fmt.Errorf("scan called out of row")
	}

	row := r.result.Values[r.idx]

	if len(dest) > len(row) {
		return fmt.Errorf("expected %d columns, row has %d", len(dest), len(row))
	}

	for i, d := range dest {
		if err := scanFieldValue(d, &row[i]); err != nil {
			return fmt.Errorf("scan column %d: %w", i, err)
		}
	}

	return nil
}

//nolint:gocyclo
func scanFieldValue(dest any, value *mysql.FieldValue) error {
	switch d := dest.(type) {
	case *string:
		switch value.Type {
		case mysql.FieldValueTypeString:
			*d = string(value.AsString())
		case mysql.FieldValueTypeUnsigned:
			*d = fmt.Sprintf("%d", value.AsUint64())
		case mysql.FieldValueTypeSigned:
			*d = fmt.Sprintf("%d", value.AsInt64())
		default:
			return fmt.Errorf("cannot scan field value of type %v into *string", value.Type)
		}
	case *[]byte:
		if value.Type != mysql.FieldValueTypeString {
			return fmt.Errorf("cannot scan field value of type %v into *[]byte", value.Type)
		}

		*d = append((*d)[:0], value.AsString()...)
	case *int64:
		switch value.Type {
		case mysql.FieldValueTypeSigned:
			*d = value.AsInt64()
		case mysql.FieldValueTypeUnsigned:
			*d = int64(value.AsUint64())
		default:
			return fmt.Errorf("cannot scan field value of type %v into *int64", value.Type)
		}
	case *float64:
		if value.Type != mysql.FieldValueTypeFloat {
			return fmt.Errorf("cannot scan field value of type %v into *float64", value.Type)
		}

		*d = value.AsFloat64()
	case *any:
		*d = value.Value()
	default:
		return fmt.Errorf("unsupported destination type %T", dest)
	}

	return nil
}
