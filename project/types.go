// Package project folds a decoded wpilog record stream into dense,
// timestamp-keyed wide rows suitable for columnar output.
package project

// WideRow is one row of the projected wide-format table: one non-control
// record's decoded payload, keyed by the timestamp/entry/loop_count triple
// that identifies its place in the source stream.
type WideRow struct {
	Timestamp float64
	Entry     uint32
	TypeName  string
	LoopCount uint64
	Data      map[string]interface{}
}

// Stats counts the recoverable conditions Project skipped rather than
// failing the whole file on, per the error-handling design's rule that
// per-record issues surface through counters, not the error return.
type Stats struct {
	// SkippedNoEntry counts data records whose entry id was not Live
	// (never started, already finished, or malformed file order).
	SkippedNoEntry int
	// SkippedDecodeErrors counts data records whose payload failed to
	// decode against its entry's declared type.
	SkippedDecodeErrors int
	// SkippedSchemaErrors counts structschema: entries whose payload text
	// failed to parse as a struct schema.
	SkippedSchemaErrors int
	// SkippedUnknownControl counts control records that were not a
	// recognized Start/Finish/Set-Metadata shape.
	SkippedUnknownControl int
}

// Total returns the sum of all skip counters.
func (s Stats) Total() int {
	return s.SkippedNoEntry + s.SkippedDecodeErrors + s.SkippedSchemaErrors + s.SkippedUnknownControl
}

// Formatter accumulates the cross-row metadata a Parquet writer needs to
// build a schema: every column name ever populated, and the type names of
// the structschema: entries started in the file, in start order.
type Formatter struct {
	MetricsNames  map[string]struct{}
	StructSchemas []string
	Stats         Stats
}

// HasColumn reports whether name was observed in any row.
func (f *Formatter) HasColumn(name string) bool {
	_, ok := f.MetricsNames[name]
	return ok
}
