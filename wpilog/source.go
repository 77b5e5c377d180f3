package wpilog

import "github.com/viam-labs/wpilog-parquet/internal/wpierr"

// source is a bounds-checked, random-access view over an entire wpilog
// file's bytes, held as a single in-memory buffer read once via
// os.ReadFile.
//
// Primitive decoders read directly out of the slices this returns, so the
// decode path stays zero-copy up to the point a value is projected into a
// WideRow.
type source struct {
	data []byte
}

func newSource(data []byte) *source {
	return &source{data: data}
}

// Len returns the total number of bytes in the source.
func (s *source) Len() int {
	return len(s.data)
}

// Slice returns a bounds-checked view of s.data[offset:offset+length].
func (s *source) Slice(offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > len(s.data) {
		return nil, wpierr.NewInvalidFormatError(
			"slice out of range: offset=%d length=%d file-size=%d", offset, length, len(s.data))
	}
	return s.data[offset : offset+length], nil
}
