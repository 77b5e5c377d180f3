package wpilog

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/viam-labs/wpilog-parquet/internal/wpierr"
)

// StartData is the decoded payload of a Start control record.
type StartData struct {
	Entry    uint32
	Name     string
	Type     string
	Metadata string
}

// SetMetadataData is the decoded payload of a Set-Metadata control record.
type SetMetadataData struct {
	Entry    uint32
	Metadata string
}

// readLengthPrefixedString reads a 4-byte little-endian length followed by
// that many bytes of UTF-8 text. field names the value being read (e.g.
// "name", "metadata") for error messages and is not otherwise interpreted.
func readLengthPrefixedString(data []byte, pos int, field string) (string, int, error) {
	if pos+4 > len(data) {
		return "", 0, wpierr.NewInvalidFormatError("control record truncated reading %s length at %d", field, pos)
	}
	n := int(readLEUint(data[pos:pos+4], 4))
	pos += 4
	if pos+n > len(data) {
		return "", 0, wpierr.NewInvalidFormatError("control record truncated reading %d-byte %s at %d", n, field, pos)
	}
	raw := data[pos : pos+n]
	if !isValidUTF8(raw) {
		return "", 0, wpierr.NewUtf8Error(nil, "control record %s at offset %d is not valid UTF-8", field, pos)
	}
	return string(raw), pos + n, nil
}

// GetStartData decodes a Start control record's payload.
func GetStartData(rec Record) (StartData, error) {
	if !rec.IsStart() {
		return StartData{}, wpierr.NewParseError("record at offset %d is not a well-formed Start record", rec.Offset)
	}
	data := rec.Data
	entry := uint32(readLEUint(data[1:5], 4))
	pos := 5

	name, pos, err := readLengthPrefixedString(data, pos, "name")
	if err != nil {
		return StartData{}, err
	}
	typ, pos, err := readLengthPrefixedString(data, pos, "type")
	if err != nil {
		return StartData{}, err
	}
	metadata, _, err := readLengthPrefixedString(data, pos, "metadata")
	if err != nil {
		return StartData{}, err
	}

	return StartData{Entry: entry, Name: name, Type: typ, Metadata: metadata}, nil
}

// GetFinishEntry decodes a Finish control record's payload.
func GetFinishEntry(rec Record) (uint32, error) {
	if !rec.IsFinish() {
		return 0, wpierr.NewParseError("record at offset %d is not a well-formed Finish record", rec.Offset)
	}
	return uint32(readLEUint(rec.Data[1:5], 4)), nil
}

// GetSetMetadataData decodes a Set-Metadata control record's payload.
func GetSetMetadataData(rec Record) (SetMetadataData, error) {
	if !rec.IsSetMetadata() {
		return SetMetadataData{}, wpierr.NewParseError("record at offset %d is not a well-formed Set-Metadata record", rec.Offset)
	}
	data := rec.Data
	entry := uint32(readLEUint(data[1:5], 4))
	metadata, _, err := readLengthPrefixedString(data, 5, "metadata")
	if err != nil {
		return SetMetadataData{}, err
	}
	return SetMetadataData{Entry: entry, Metadata: metadata}, nil
}

// GetBoolean decodes a "boolean" payload: exactly one byte, 0 or nonzero.
func GetBoolean(rec Record) (bool, error) {
	if len(rec.Data) != 1 {
		return false, wpierr.NewParseError("boolean payload must be 1 byte, got %d", len(rec.Data))
	}
	return rec.Data[0] != 0, nil
}

// GetInt64 decodes an "int64" payload: 8 bytes, little-endian, signed.
func GetInt64(rec Record) (int64, error) {
	if len(rec.Data) != 8 {
		return 0, wpierr.NewParseError("int64 payload must be 8 bytes, got %d", len(rec.Data))
	}
	return int64(readLEUint(rec.Data, 8)), nil
}

// GetFloat decodes a "float" payload: 4 bytes, IEEE-754 single precision.
func GetFloat(rec Record) (float64, error) {
	if len(rec.Data) != 4 {
		return 0, wpierr.NewParseError("float payload must be 4 bytes, got %d", len(rec.Data))
	}
	bits := uint32(readLEUint(rec.Data, 4))
	return float64(math.Float32frombits(bits)), nil
}

// GetDouble decodes a "double" payload: 8 bytes, IEEE-754 double precision.
func GetDouble(rec Record) (float64, error) {
	if len(rec.Data) != 8 {
		return 0, wpierr.NewParseError("double payload must be 8 bytes, got %d", len(rec.Data))
	}
	bits := readLEUint(rec.Data, 8)
	return math.Float64frombits(bits), nil
}

// GetString decodes a "string" or "json" payload: the raw payload
// interpreted as UTF-8 text.
func GetString(rec Record) (string, error) {
	if !isValidUTF8(rec.Data) {
		return "", wpierr.NewUtf8Error(nil, "string payload at offset %d is not valid UTF-8", rec.Offset)
	}
	return string(rec.Data), nil
}

// GetRaw returns a "raw" (or otherwise unrecognized-type) payload unchanged.
func GetRaw(rec Record) []byte {
	return rec.Data
}

// GetBooleanArray decodes a "boolean[]" payload: one byte per element.
func GetBooleanArray(rec Record) ([]bool, error) {
	out := make([]bool, len(rec.Data))
	for i, b := range rec.Data {
		out[i] = b != 0
	}
	return out, nil
}

// GetInt64Array decodes an "int64[]" payload: 8 bytes per element.
func GetInt64Array(rec Record) ([]int64, error) {
	if len(rec.Data)%8 != 0 {
		return nil, wpierr.NewParseError("int64[] payload length %d is not a multiple of 8", len(rec.Data))
	}
	out := make([]int64, len(rec.Data)/8)
	for i := range out {
		out[i] = int64(readLEUint(rec.Data[i*8:i*8+8], 8))
	}
	return out, nil
}

// GetFloatArray decodes a "float[]" payload: 4 bytes per element.
func GetFloatArray(rec Record) ([]float64, error) {
	if len(rec.Data)%4 != 0 {
		return nil, wpierr.NewParseError("float[] payload length %d is not a multiple of 4", len(rec.Data))
	}
	out := make([]float64, len(rec.Data)/4)
	for i := range out {
		bits := uint32(readLEUint(rec.Data[i*4:i*4+4], 4))
		out[i] = float64(math.Float32frombits(bits))
	}
	return out, nil
}

// GetDoubleArray decodes a "double[]" payload: 8 bytes per element.
func GetDoubleArray(rec Record) ([]float64, error) {
	if len(rec.Data)%8 != 0 {
		return nil, wpierr.NewParseError("double[] payload length %d is not a multiple of 8", len(rec.Data))
	}
	out := make([]float64, len(rec.Data)/8)
	for i := range out {
		out[i] = math.Float64frombits(readLEUint(rec.Data[i*8:i*8+8], 8))
	}
	return out, nil
}

// GetStringArray decodes a "string[]" payload: a 4-byte element count
// followed by that many length-prefixed UTF-8 strings.
func GetStringArray(rec Record) ([]string, error) {
	data := rec.Data
	if len(data) < 4 {
		return nil, wpierr.NewParseError("string[] payload truncated reading element count")
	}
	count := int(readLEUint(data[0:4], 4))
	pos := 4
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		s, next, err := readLengthPrefixedString(data, pos, fmt.Sprintf("string[] element %d", i))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
		pos = next
	}
	return out, nil
}

func isValidUTF8(b []byte) bool {
	return utf8.Valid(b)
}
