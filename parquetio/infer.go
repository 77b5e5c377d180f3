package parquetio

import (
	"github.com/viam-labs/wpilog-parquet/internal/wpierr"
	"github.com/viam-labs/wpilog-parquet/project"
)

// DerivedSchema is the inferred, nullable column layout for a set of wide
// rows: every observed column name mapped to the lattice-unified Kind that
// can represent every value seen for it, in a stable column order.
type DerivedSchema struct {
	Columns []string
	Kinds   map[string]Kind
}

// InferSchema scans rows and derives a DerivedSchema. columnOrder fixes the
// output column order (typically Formatter.MetricsNames, sorted); timestamp
// and entry_type are always included regardless of columnOrder, per the
// external-interfaces contract that both are always present.
func InferSchema(rows []project.WideRow, columnOrder []string) (DerivedSchema, error) {
	kinds := make(map[string]Kind, len(columnOrder)+2)
	order := make([]string, 0, len(columnOrder)+2)

	ensure := func(name string) {
		if _, ok := kinds[name]; !ok {
			kinds[name] = KindNull
			order = append(order, name)
		}
	}
	ensure("timestamp")
	ensure("entry_type")
	for _, col := range columnOrder {
		ensure(col)
	}

	for _, row := range rows {
		kinds["timestamp"] = unify(kinds["timestamp"], KindFloat64)
		kinds["entry_type"] = unify(kinds["entry_type"], KindString)
		for col, v := range row.Data {
			ensure(col)
			k, err := kindOfValue(v)
			if err != nil {
				return DerivedSchema{}, wpierr.Wrap(wpierr.SchemaError, err, "inferring type of column %q", col)
			}
			kinds[col] = unify(kinds[col], k)
		}
	}

	return DerivedSchema{Columns: order, Kinds: kinds}, nil
}

func kindOfValue(v interface{}) (Kind, error) {
	switch v.(type) {
	case nil:
		return KindNull, nil
	case bool:
		return KindBool, nil
	case int64:
		return KindInt64, nil
	case float64:
		return KindFloat64, nil
	case string:
		return KindString, nil
	case []bool:
		return KindBoolArray, nil
	case []int64:
		return KindInt64Array, nil
	case []float64:
		return KindFloat64Array, nil
	case []string:
		return KindStringArray, nil
	default:
		return KindString, nil
	}
}
