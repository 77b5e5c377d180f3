package wpilog

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/viam-labs/wpilog-parquet/internal/wpierr"
)

// GetMsgpack decodes a "msgpack" payload into a generic value tree: maps
// decode as map[string]interface{}, arrays as []interface{}, and scalars as
// their natural Go type. Flattening the tree into dotted WideRow columns is
// the project package's job, not this package's.
func GetMsgpack(rec Record) (interface{}, error) {
	var v interface{}
	if err := msgpack.Unmarshal(rec.Data, &v); err != nil {
		return nil, wpierr.NewParseError("decoding msgpack payload at offset %d: %v", rec.Offset, err)
	}
	return normalizeMsgpackValue(v), nil
}

// normalizeMsgpackValue coerces the interface{}-keyed maps that
// vmihailenco/msgpack produces for map values into string-keyed maps, since
// wpilog struct/array field names are always strings.
func normalizeMsgpackValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, vv := range t {
			out[k] = normalizeMsgpackValue(vv)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, vv := range t {
			out[toStringKey(k)] = normalizeMsgpackValue(vv)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, vv := range t {
			out[i] = normalizeMsgpackValue(vv)
		}
		return out
	default:
		return v
	}
}

func toStringKey(k interface{}) string {
	if s, ok := k.(string); ok {
		return s
	}
	return anyToString(k)
}
