// Package parquetio infers a Parquet schema from a set of wide rows and
// writes them out as chunked .parquet files.
package parquetio

// Kind is a column's inferred storage kind, forming a small lattice used to
// unify the types actually observed across a column's values:
// Null <= Bool <= Int64 <= Float64, with String incomparable (any string
// value forces the whole column to String) and array kinds tracked
// separately per primitive element kind.
type Kind int

// Column kinds, in lattice rank order for the scalar chain.
const (
	KindNull Kind = iota
	KindBool
	KindInt64
	KindFloat64
	KindString
	KindBoolArray
	KindInt64Array
	KindFloat64Array
	KindStringArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindBoolArray:
		return "bool[]"
	case KindInt64Array:
		return "int64[]"
	case KindFloat64Array:
		return "float64[]"
	case KindStringArray:
		return "string[]"
	default:
		return "unknown"
	}
}

func (k Kind) isArray() bool {
	return k == KindBoolArray || k == KindInt64Array || k == KindFloat64Array || k == KindStringArray
}

// scalarRank returns this kind's position in the Null<=Bool<=Int64<=Float64
// chain, or -1 if it is not part of that chain (String, or an array kind).
func (k Kind) scalarRank() int {
	switch k {
	case KindNull:
		return 0
	case KindBool:
		return 1
	case KindInt64:
		return 2
	case KindFloat64:
		return 3
	default:
		return -1
	}
}

// unify computes the lattice join of two kinds observed for the same
// column: the least upper bound that both can be safely represented as.
func unify(a, b Kind) Kind {
	if a == KindNull {
		return b
	}
	if b == KindNull {
		return a
	}
	if a == b {
		return a
	}
	if a.isArray() || b.isArray() {
		// Mismatched array element kinds, or an array mixed with a
		// scalar, both fall back to a stringified column.
		return KindString
	}
	if a == KindString || b == KindString {
		return KindString
	}
	ra, rb := a.scalarRank(), b.scalarRank()
	if ra < 0 || rb < 0 {
		return KindString
	}
	if ra > rb {
		return a
	}
	return b
}
