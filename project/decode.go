package project

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/viam-labs/wpilog-parquet/wpilog"
)

const structSchemaPrefix = "structschema:"

// decodeColumns projects one non-control record's payload into the
// dotted-column-name values it contributes to a WideRow. skip is true (with
// a nil error) for record types that never produce a row on their own, such
// as a structschema: entry's schema-text payload.
func decodeColumns(info wpilog.EntryInfo, rec wpilog.Record, registry *wpilog.Registry) (data map[string]interface{}, skip bool, err error) {
	switch {
	case info.Type == "boolean":
		v, err := wpilog.GetBoolean(rec)
		return single(info.Name, v), false, err
	case info.Type == "int64":
		v, err := wpilog.GetInt64(rec)
		return single(info.Name, v), false, err
	case info.Type == "float":
		v, err := wpilog.GetFloat(rec)
		return single(info.Name, v), false, err
	case info.Type == "double":
		v, err := wpilog.GetDouble(rec)
		return single(info.Name, v), false, err
	case info.Type == "string" || info.Type == "json":
		v, err := wpilog.GetString(rec)
		return single(info.Name, v), false, err
	case info.Type == "boolean[]":
		v, err := wpilog.GetBooleanArray(rec)
		return single(info.Name, v), false, err
	case info.Type == "int64[]":
		v, err := wpilog.GetInt64Array(rec)
		return single(info.Name, v), false, err
	case info.Type == "float[]":
		v, err := wpilog.GetFloatArray(rec)
		return single(info.Name, v), false, err
	case info.Type == "double[]":
		v, err := wpilog.GetDoubleArray(rec)
		return single(info.Name, v), false, err
	case info.Type == "string[]":
		v, err := wpilog.GetStringArray(rec)
		return single(info.Name, v), false, err
	case info.Type == "msgpack":
		v, err := wpilog.GetMsgpack(rec)
		if err != nil {
			return nil, false, err
		}
		dst := make(map[string]interface{})
		flattenMsgpack(info.Name, v, dst)
		return dst, false, nil
	case strings.HasPrefix(info.Type, "struct:"):
		typeName := strings.TrimPrefix(info.Type, "struct:")
		fields, err := wpilog.Unpack(typeName, rec.Data, registry)
		if err != nil {
			return nil, false, err
		}
		dst := make(map[string]interface{}, len(fields))
		for k, v := range fields {
			setColumn(dst, info.Name+"."+k, v)
		}
		return dst, false, nil
	case strings.HasPrefix(info.Type, structSchemaPrefix):
		// The payload here is schema text, resolved during the schema
		// pass; it never contributes to a data row.
		return nil, true, nil
	default:
		// raw, or an unrecognized type string: keep the bytes as an
		// opaque hex-encoded column value.
		return single(info.Name, hex.EncodeToString(rec.Data)), false, nil
	}
}

func single(name string, v interface{}) map[string]interface{} {
	dst := make(map[string]interface{}, 1)
	setColumn(dst, name, v)
	return dst
}

// setColumn writes v under name's sanitized column key. This is the single
// call site every column-key construction in this file routes through, so a
// future naming-collision rule only needs to change SanitizeColumnName.
func setColumn(dst map[string]interface{}, name string, v interface{}) {
	dst[SanitizeColumnName(name)] = v
}

// flattenMsgpack walks a decoded msgpack value tree, writing dotted-path
// leaves into dst. Nested maps become dotted column names; nested arrays
// flatten to a typed slice only when every element normalizes to the same
// scalar kind, otherwise the whole array is stringified conservatively
// (nested-array flattening rules are otherwise unspecified).
func flattenMsgpack(path string, v interface{}, dst map[string]interface{}) {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, vv := range t {
			flattenMsgpack(path+"."+k, vv, dst)
		}
	case []interface{}:
		if arr, ok := homogeneousScalarArray(t); ok {
			setColumn(dst, path, arr)
			return
		}
		setColumn(dst, path, stringifyValue(t))
	case nil:
		setColumn(dst, path, nil)
	default:
		setColumn(dst, path, normalizeScalar(t))
	}
}

// normalizeScalar collapses the numeric zoo a msgpack decoder can produce
// (int8..uint64, float32) down to the value sum type's int64/float64.
func normalizeScalar(v interface{}) interface{} {
	switch n := v.(type) {
	case bool, string, int64, float64:
		return n
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case uint:
		return int64(n)
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	case float32:
		return float64(n)
	default:
		return stringifyValue(v)
	}
}

func homogeneousScalarArray(arr []interface{}) (interface{}, bool) {
	if len(arr) == 0 {
		return []interface{}{}, true
	}
	normalized := make([]interface{}, len(arr))
	for i, v := range arr {
		switch v.(type) {
		case map[string]interface{}, []interface{}:
			return nil, false
		default:
			normalized[i] = normalizeScalar(v)
		}
	}
	first := normalized[0]
	switch first.(type) {
	case bool:
		out := make([]bool, len(normalized))
		for i, v := range normalized {
			b, ok := v.(bool)
			if !ok {
				return nil, false
			}
			out[i] = b
		}
		return out, true
	case int64:
		out := make([]int64, len(normalized))
		for i, v := range normalized {
			n, ok := v.(int64)
			if !ok {
				return nil, false
			}
			out[i] = n
		}
		return out, true
	case float64:
		out := make([]float64, len(normalized))
		for i, v := range normalized {
			n, ok := v.(float64)
			if !ok {
				return nil, false
			}
			out[i] = n
		}
		return out, true
	case string:
		out := make([]string, len(normalized))
		for i, v := range normalized {
			s, ok := v.(string)
			if !ok {
				return nil, false
			}
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func stringifyValue(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
