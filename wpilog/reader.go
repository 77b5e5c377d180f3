// Package wpilog decodes WPILib data-log ("wpilog") files: a binary,
// append-only telemetry stream with an in-band entry-id directory and
// embedded struct-schema definitions. It provides the byte source, record
// framer, entry directory, payload decoders, struct-schema parser, and
// struct unpacker needed to walk one of these files record by record.
package wpilog

import (
	"iter"
	"os"

	"github.com/viam-labs/wpilog-parquet/internal/wpierr"
)

const (
	fileMagic           = "WPILOG"
	minSupportedVer     = 0x0100
	fixedHeaderPreamble = len(fileMagic) + 2 + 4 // magic + version + extra-header length
)

// Reader is a random-access view over one wpilog file's header and record
// stream. A Reader owns its byte source exclusively; it may be handed
// between goroutines but must not be used from two goroutines at once.
type Reader struct {
	src         *source
	version     uint16
	extraHeader string
	recordStart int
}

// Open reads path fully into memory and constructs a Reader over it.
func Open(path string) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wpierr.NewIoError(err, "reading %s", path)
	}
	return OpenBytes(data)
}

// OpenBytes constructs a Reader over an in-memory wpilog file image.
func OpenBytes(data []byte) (*Reader, error) {
	src := newSource(data)
	version, extraHeader, recordStart, err := parseFileHeader(src)
	if err != nil {
		return nil, err
	}
	return &Reader{src: src, version: version, extraHeader: extraHeader, recordStart: recordStart}, nil
}

// ReaderBuilder offers a fluent, builder-style alternative to Open/OpenBytes.
// Reader has no configurable options today beyond its source, so this exists
// purely for call-site symmetry with parquetio.WriterBuilder.
type ReaderBuilder struct {
	path string
	data []byte
}

// NewReaderBuilder starts a ReaderBuilder.
func NewReaderBuilder() *ReaderBuilder {
	return &ReaderBuilder{}
}

// FromFile configures the builder to read from a file path.
func (b *ReaderBuilder) FromFile(path string) *ReaderBuilder {
	b.path = path
	b.data = nil
	return b
}

// FromBytes configures the builder to read from an in-memory buffer.
func (b *ReaderBuilder) FromBytes(data []byte) *ReaderBuilder {
	b.data = data
	b.path = ""
	return b
}

// Build constructs the Reader.
func (b *ReaderBuilder) Build() (*Reader, error) {
	if b.data != nil {
		return OpenBytes(b.data)
	}
	return Open(b.path)
}

func parseFileHeader(src *source) (version uint16, extraHeader string, recordStart int, err error) {
	if src.Len() < fixedHeaderPreamble {
		return 0, "", 0, wpierr.NewInvalidFormatError(
			"file too short to contain a wpilog header: have %d bytes, need at least %d", src.Len(), fixedHeaderPreamble)
	}

	magic, err := src.Slice(0, len(fileMagic))
	if err != nil || string(magic) != fileMagic {
		return 0, "", 0, wpierr.NewInvalidFormatError("bad magic bytes: expected %q", fileMagic)
	}

	verBytes, err := src.Slice(len(fileMagic), 2)
	if err != nil {
		return 0, "", 0, err
	}
	version = uint16(readLEUint(verBytes, 2))
	if version < minSupportedVer {
		return 0, "", 0, wpierr.NewInvalidFormatError("unsupported wpilog version 0x%04x", version)
	}

	extraLenBytes, err := src.Slice(len(fileMagic)+2, 4)
	if err != nil {
		return 0, "", 0, err
	}
	extraLen := int(readLEUint(extraLenBytes, 4))

	extraBytes, err := src.Slice(fixedHeaderPreamble, extraLen)
	if err != nil {
		return 0, "", 0, wpierr.NewInvalidFormatError("extra header length %d exceeds file size", extraLen)
	}
	extraHeader = string(extraBytes)

	return version, extraHeader, fixedHeaderPreamble + extraLen, nil
}

// Version returns the wpilog format version (e.g. 0x0100).
func (r *Reader) Version() uint16 {
	return r.version
}

// ExtraHeader returns the file's free-form UTF-8 extra header text.
func (r *Reader) ExtraHeader() string {
	return r.extraHeader
}

// Records returns a fresh, lazy sequence over the record stream, starting
// just after the file header. Each call to Records returns an independent
// iterator that starts over from the beginning: the Reader holds no cursor
// state across iterators, so a caller can walk the same file more than once.
//
// The sequence stops (no further values) once decodeRecordAt reaches a
// clean end of file. If a record is truncated or otherwise malformed, the
// sequence yields exactly one (zero Record, error) pair and then stops;
// callers should treat any non-nil error as fatal to the whole file, since
// framing errors leave every later byte offset unreliable.
func (r *Reader) Records() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		pos := r.recordStart
		for {
			rec, next, ok, err := decodeRecordAt(r.src, pos)
			if err != nil {
				yield(Record{}, err)
				return
			}
			if !ok {
				return
			}
			if !yield(rec, nil) {
				return
			}
			pos = next
		}
	}
}
