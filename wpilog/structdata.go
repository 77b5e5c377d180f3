package wpilog

import (
	"bytes"
	"math"

	"github.com/viam-labs/wpilog-parquet/internal/wpierr"
)

// Unpack decodes a "struct:<typeName>" payload against the schema
// registered under typeName, producing a flat map keyed by dotted column
// path (outer.inner for nested struct fields). registry must already
// contain typeName's schema and the schema of every struct type it
// references, transitively; struct: payloads never carry their own inline
// schema.
func Unpack(typeName string, data []byte, registry *Registry) (map[string]interface{}, error) {
	schema, ok := registry.Lookup(typeName)
	if !ok {
		return nil, wpierr.NewSchemaError("no registered schema for struct type %q", typeName)
	}

	dst := make(map[string]interface{})
	pos, err := unpackInto(dst, "", schema, data, 0, registry)
	if err != nil {
		return nil, err
	}
	if pos != len(data) {
		return nil, wpierr.NewParseError(
			"struct %q payload has %d trailing bytes after decoding %d expected", typeName, len(data)-pos, pos)
	}
	return dst, nil
}

func unpackInto(dst map[string]interface{}, prefix string, schema StructSchema, data []byte, pos int, registry *Registry) (int, error) {
	for _, field := range schema.Fields {
		key := prefix + field.Name

		if !field.IsPrimitive() {
			if field.ArrayLen > 0 {
				return 0, wpierr.NewSchemaError("field %q: arrays of struct type are not supported", key)
			}
			nested, ok := registry.Lookup(field.Type)
			if !ok {
				return 0, wpierr.NewSchemaError("field %q references unregistered struct type %q", key, field.Type)
			}
			var err error
			pos, err = unpackInto(dst, key+".", nested, data, pos, registry)
			if err != nil {
				return 0, err
			}
			continue
		}

		size := primitiveSizes[field.Type]

		if field.ArrayLen == 0 {
			v, next, err := decodeScalarField(field.Type, data, pos)
			if err != nil {
				return 0, wpierr.Wrap(wpierr.ParseError, err, "field %q", key)
			}
			dst[key] = v
			pos = next
			continue
		}

		if field.Type == "char" {
			end := pos + field.ArrayLen
			if end > len(data) {
				return 0, wpierr.NewParseError("field %q: truncated char[%d] array", key, field.ArrayLen)
			}
			dst[key] = cStringFromBytes(data[pos:end])
			pos = end
			continue
		}

		arr := make([]interface{}, field.ArrayLen)
		for i := 0; i < field.ArrayLen; i++ {
			v, next, err := decodeScalarField(field.Type, data, pos)
			if err != nil {
				return 0, wpierr.Wrap(wpierr.ParseError, err, "field %q[%d]", key, i)
			}
			arr[i] = v
			pos = next
		}
		_ = size
		dst[key] = arr
	}
	return pos, nil
}

// cStringFromBytes reads a fixed-width char array as a C string: the value
// ends at the first NUL byte, and any bytes after it (including further
// non-NUL bytes) are discarded. A char array with no NUL uses its full width.
func cStringFromBytes(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

func decodeScalarField(typ string, data []byte, pos int) (interface{}, int, error) {
	size, ok := primitiveSizes[typ]
	if !ok {
		return nil, 0, wpierr.NewSchemaError("unknown primitive type %q", typ)
	}
	if pos+size > len(data) {
		return nil, 0, wpierr.NewParseError("truncated %s value at byte offset %d", typ, pos)
	}
	b := data[pos : pos+size]

	switch typ {
	case "bool":
		return b[0] != 0, pos + size, nil
	case "char":
		return string(b[0]), pos + size, nil
	case "int8":
		return int64(int8(b[0])), pos + size, nil
	case "uint8":
		return int64(b[0]), pos + size, nil
	case "int16":
		return int64(int16(readLEUint(b, 2))), pos + size, nil
	case "uint16":
		return int64(readLEUint(b, 2)), pos + size, nil
	case "int32":
		return int64(int32(readLEUint(b, 4))), pos + size, nil
	case "uint32":
		return int64(readLEUint(b, 4)), pos + size, nil
	case "int64":
		return int64(readLEUint(b, 8)), pos + size, nil
	case "uint64":
		return readLEUint(b, 8), pos + size, nil
	case "float", "float32":
		return float64(math.Float32frombits(uint32(readLEUint(b, 4)))), pos + size, nil
	case "double", "float64":
		return math.Float64frombits(readLEUint(b, 8)), pos + size, nil
	default:
		return nil, 0, wpierr.NewSchemaError("unknown primitive type %q", typ)
	}
}
