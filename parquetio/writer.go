package parquetio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	pqwriter "github.com/xitongsys/parquet-go/writer"

	"github.com/viam-labs/wpilog-parquet/internal/wpierr"
	"github.com/viam-labs/wpilog-parquet/project"
)

const (
	// DefaultChunkSize is the row count per output file when the caller
	// does not override it.
	DefaultChunkSize = 50_000
	// MinChunkSize and MaxChunkSize bound ChunkSize's valid range.
	MinChunkSize = 1
	MaxChunkSize = 10_000_000

	parquetWriterParallelism = 4
)

// ChunkWrittenFunc is called after each chunk file is fully written and
// closed, letting a CLI front end report progress without the writer
// depending on any particular logger or progress-bar library.
type ChunkWrittenFunc func(path string, rowsInChunk int)

// Writer partitions a set of wide rows into fixed-size chunks and writes
// each chunk to its own file_partNNN.parquet file under an output
// directory, inferring a nullable column schema from the rows it is given.
type Writer struct {
	outputDir    string
	chunkSize    int
	onChunkWrite ChunkWrittenFunc
	rowGroupSize int64
	compression  parquet.CompressionCodec
}

// WriterBuilder configures a Writer before construction, mirroring the
// original implementation's fluent `ParquetWriter(dir).chunk_size(n)` style.
type WriterBuilder struct {
	w Writer
}

// NewWriter starts a WriterBuilder targeting outputDir.
func NewWriter(outputDir string) *WriterBuilder {
	return &WriterBuilder{w: Writer{
		outputDir:    outputDir,
		chunkSize:    DefaultChunkSize,
		rowGroupSize: 128 * 1024 * 1024,
		compression:  parquet.CompressionCodec_SNAPPY,
	}}
}

// ChunkSize overrides the default chunk size. Values outside
// [MinChunkSize, MaxChunkSize] are clamped into range.
func (b *WriterBuilder) ChunkSize(n int) *WriterBuilder {
	if n < MinChunkSize {
		n = MinChunkSize
	}
	if n > MaxChunkSize {
		n = MaxChunkSize
	}
	b.w.chunkSize = n
	return b
}

// OnChunkWritten registers a progress callback invoked after each chunk
// file is closed.
func (b *WriterBuilder) OnChunkWritten(fn ChunkWrittenFunc) *WriterBuilder {
	b.w.onChunkWrite = fn
	return b
}

// Build finalizes the Writer.
func (b *WriterBuilder) Build() *Writer {
	w := b.w
	return &w
}

// Write projects rows to output_dir/file_partNNN.parquet files, discarding
// the resulting WriteStats.
func (w *Writer) Write(rows []project.WideRow) error {
	_, err := w.WriteWithStats(rows)
	return err
}

// WriteWithStats does the same as Write but returns the resulting
// WriteStats. Any I/O or encoding failure aborts the write immediately with
// an OutputError or SchemaError; partial chunk files already flushed to
// disk are left in place, per the writer's failure contract.
func (w *Writer) WriteWithStats(rows []project.WideRow) (WriteStats, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return WriteStats{}, wpierr.NewOutputError(err, "creating output directory %s", w.outputDir)
	}

	columnOrder := collectColumnNames(rows)
	schema, err := InferSchema(rows, columnOrder)
	if err != nil {
		return WriteStats{}, err
	}
	jsonSchema := buildJSONSchema(schema)

	stats := WriteStats{NumRecords: len(rows), ChunkSize: w.chunkSize}
	for start := 0; start < len(rows); start += w.chunkSize {
		end := start + w.chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		path := filepath.Join(w.outputDir, fmt.Sprintf("file_part%03d.parquet", stats.NumChunks))
		if err := w.writeChunk(path, jsonSchema, schema, chunk); err != nil {
			return WriteStats{}, err
		}
		stats.NumChunks++
		if w.onChunkWrite != nil {
			w.onChunkWrite(path, len(chunk))
		}
	}
	return stats, nil
}

func (w *Writer) writeChunk(path, jsonSchema string, schema DerivedSchema, rows []project.WideRow) error {
	pFile, err := local.NewLocalFileWriter(path)
	if err != nil {
		return wpierr.NewOutputError(err, "opening %s", path)
	}
	defer pFile.Close()

	pw, err := pqwriter.NewJSONWriter(jsonSchema, pFile, parquetWriterParallelism)
	if err != nil {
		return wpierr.NewOutputError(err, "building parquet schema for %s", path)
	}
	pw.RowGroupSize = w.rowGroupSize
	pw.CompressionType = w.compression

	for _, row := range rows {
		record := coerceRow(schema, rowLike{timestamp: row.Timestamp, typeName: row.TypeName, data: row.Data})
		encoded, err := json.Marshal(record)
		if err != nil {
			return wpierr.Wrap(wpierr.OutputError, err, "encoding row for %s", path)
		}
		if err := pw.Write(string(encoded)); err != nil {
			return wpierr.Wrap(wpierr.OutputError, err, "writing row to %s", path)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return wpierr.Wrap(wpierr.OutputError, err, "finalizing %s", path)
	}
	return nil
}

func collectColumnNames(rows []project.WideRow) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for col := range row.Data {
			seen[col] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for col := range seen {
		names = append(names, col)
	}
	sort.Strings(names)
	return names
}
