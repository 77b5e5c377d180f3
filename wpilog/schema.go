package wpilog

import (
	"strconv"
	"strings"

	"github.com/viam-labs/wpilog-parquet/internal/wpierr"
)

// primitiveSizes gives the fixed little-endian byte width of each built-in
// scalar type named in a struct schema. "bool" and "char" are one byte;
// the sized integer names spell out their own width.
var primitiveSizes = map[string]int{
	"bool": 1, "char": 1,
	"int8": 1, "uint8": 1,
	"int16": 1 * 2, "uint16": 1 * 2,
	"int32": 1 * 4, "uint32": 1 * 4,
	"int64": 1 * 8, "uint64": 1 * 8,
	"float": 4, "float32": 4,
	"double": 8, "float64": 8,
}

// Field is one member of a StructSchema: a type name (either primitive or a
// reference to another registered struct), a field name, and an optional
// fixed array length (0 means scalar).
type Field struct {
	Type      string
	Name      string
	ArrayLen  int
	IsPrimVal bool
}

// IsPrimitive reports whether f.Type names a built-in scalar rather than a
// previously registered struct.
func (f Field) IsPrimitive() bool {
	_, ok := primitiveSizes[f.Type]
	return ok
}

// StructSchema is the parsed form of a single "structschema:<Name>" payload:
// an ordered list of fields.
type StructSchema struct {
	Fields []Field
}

// ParseSchema parses the field-list mini-language used by structschema
// payloads:
//
//	schema := (field ';')* field? ';'?
//	field  := type IDENT ('[' INT ']')?
//
// Field order is preserved; it determines byte layout in the paired
// struct: payload.
func ParseSchema(text string) (StructSchema, error) {
	var schema StructSchema
	seen := make(map[string]struct{})
	for _, raw := range strings.Split(text, ";") {
		part := strings.TrimSpace(raw)
		if part == "" {
			continue
		}
		field, err := parseField(part)
		if err != nil {
			return StructSchema{}, err
		}
		if _, dup := seen[field.Name]; dup {
			return StructSchema{}, wpierr.NewSchemaError("duplicate field name %q in struct schema %q", field.Name, text)
		}
		seen[field.Name] = struct{}{}
		schema.Fields = append(schema.Fields, field)
	}
	if len(schema.Fields) == 0 {
		return StructSchema{}, wpierr.NewSchemaError("struct schema %q declares no fields", text)
	}
	return schema, nil
}

func parseField(part string) (Field, error) {
	arrayLen := 0
	name := part
	typ := ""

	if idx := strings.IndexByte(part, '['); idx >= 0 {
		if !strings.HasSuffix(part, "]") {
			return Field{}, wpierr.NewSchemaError("malformed array field %q: missing closing ']'", part)
		}
		lenText := part[idx+1 : len(part)-1]
		n, err := strconv.Atoi(strings.TrimSpace(lenText))
		if err != nil || n <= 0 {
			return Field{}, wpierr.NewSchemaError("malformed array length in field %q", part)
		}
		arrayLen = n
		part = strings.TrimSpace(part[:idx])
	}

	fields := strings.Fields(part)
	if len(fields) != 2 {
		return Field{}, wpierr.NewSchemaError("malformed field %q: expected \"<type> <name>\"", part)
	}
	typ, name = fields[0], fields[1]

	_, prim := primitiveSizes[typ]
	return Field{Type: typ, Name: name, ArrayLen: arrayLen, IsPrimVal: prim}, nil
}

// Registry holds struct schemas keyed by the type name they were registered
// under (the suffix of a "struct:<TypeName>" / "structschema:<TypeName>"
// entry type string). Registering a schema does not check the struct types
// its fields reference; those are looked up only when Unpack decodes a
// payload, so a referenced schema may be registered before or after the
// schema that uses it, as long as it is present by unpack time.
type Registry struct {
	schemas map[string]StructSchema
}

// NewRegistry constructs an empty schema registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]StructSchema)}
}

// Register adds the schema for typeName. Re-registering a name with a
// different schema is a schema error; re-registering with an identical
// schema is a harmless no-op.
func (r *Registry) Register(typeName string, schema StructSchema) error {
	if existing, ok := r.schemas[typeName]; ok {
		if !schemasEqual(existing, schema) {
			return wpierr.NewSchemaError("conflicting redefinition of struct schema %q", typeName)
		}
		return nil
	}
	r.schemas[typeName] = schema
	return nil
}

// Lookup returns the schema registered under typeName.
func (r *Registry) Lookup(typeName string) (StructSchema, bool) {
	s, ok := r.schemas[typeName]
	return s, ok
}

func schemasEqual(a, b StructSchema) bool {
	if len(a.Fields) != len(b.Fields) {
		return false
	}
	for i := range a.Fields {
		if a.Fields[i] != b.Fields[i] {
			return false
		}
	}
	return true
}
