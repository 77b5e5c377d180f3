// Package wpierr defines the error taxonomy shared by the wpilog, project,
// and parquetio packages. It follows go.viam.com/rdk/utils's constructor-
// function idiom (NewXError(...) error) layered over github.com/pkg/errors
// for wrapping and stack context, adding the Kind classification the
// wpilog decoder's error-handling design requires.
package wpierr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an Error into one of the taxonomy buckets the decoder and
// writer distinguish for propagation-policy purposes (fatal vs recoverable).
type Kind int

// Error kinds, matching the wpilog decode/project/write error taxonomy.
const (
	// InvalidFormat: header magic/version wrong, truncation, malformed framing.
	InvalidFormat Kind = iota
	// Io: filesystem failure.
	Io
	// InvalidEntry: control record refers to a live/absent entry inconsistently.
	InvalidEntry
	// ParseError: payload size/shape mismatch for a known type.
	ParseError
	// SchemaError: struct schema text malformed, or conflicting redefinition.
	SchemaError
	// OutputError: Parquet writer I/O or encoding failure.
	OutputError
	// Utf8Error: invalid UTF-8 in a string payload, name, or metadata.
	Utf8Error
)

func (k Kind) String() string {
	switch k {
	case InvalidFormat:
		return "InvalidFormat"
	case Io:
		return "Io"
	case InvalidEntry:
		return "InvalidEntry"
	case ParseError:
		return "ParseError"
	case SchemaError:
		return "SchemaError"
	case OutputError:
		return "OutputError"
	case Utf8Error:
		return "Utf8Error"
	default:
		return "Unknown"
	}
}

// Error is a classified, context-carrying error. It wraps an underlying
// cause (if any) via github.com/pkg/errors so callers can still Cause() or
// errors.As/Is through to the original.
type Error struct {
	Kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

// Unwrap allows errors.Is/errors.As to see through to the wrapped cause.
func (e *Error) Unwrap() error {
	return e.err
}

// Cause matches github.com/pkg/errors's Causer interface.
func (e *Error) Cause() error {
	return e.err
}

// Is reports whether target is an *Error of the same Kind, so
// `errors.Is(err, &wpierr.Error{Kind: wpierr.ParseError})` matches any error
// of that kind; KindOf below is the simpler way to read the kind.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.Kind == e.Kind
}

// New builds a classified error with a formatted message and no cause.
func New(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap builds a classified error that carries cause as its underlying error.
func Wrap(kind Kind, cause error, format string, args ...interface{}) error {
	if cause == nil {
		return New(kind, format, args...)
	}
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...), err: cause}
}

// KindOf extracts the Kind from err if it (or something it wraps) is a
// *Error; ok is false for plain errors.
func KindOf(err error) (kind Kind, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// NewInvalidFormatError reports a malformed wpilog header or record frame.
func NewInvalidFormatError(format string, args ...interface{}) error {
	return New(InvalidFormat, format, args...)
}

// NewIoError wraps a filesystem or I/O failure.
func NewIoError(cause error, format string, args ...interface{}) error {
	return Wrap(Io, cause, format, args...)
}

// NewInvalidEntryError reports an entry-directory state-machine violation.
func NewInvalidEntryError(format string, args ...interface{}) error {
	return New(InvalidEntry, format, args...)
}

// NewParseError reports a payload that doesn't match its declared type's shape.
func NewParseError(format string, args ...interface{}) error {
	return New(ParseError, format, args...)
}

// NewSchemaError reports malformed or conflicting struct-schema text.
func NewSchemaError(format string, args ...interface{}) error {
	return New(SchemaError, format, args...)
}

// NewOutputError wraps a Parquet write failure.
func NewOutputError(cause error, format string, args ...interface{}) error {
	return Wrap(OutputError, cause, format, args...)
}

// NewUtf8Error reports invalid UTF-8 in a string payload, name, or metadata.
func NewUtf8Error(cause error, format string, args ...interface{}) error {
	return Wrap(Utf8Error, cause, format, args...)
}
