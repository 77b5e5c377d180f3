// Package manifest writes a JSON-lines run manifest recording, per input
// file, the WriteStats a conversion produced. It is safe for concurrent use
// by the CLI's per-file errgroup fan-out: one *File instance is shared
// across all worker goroutines, each appending its own entry.
package manifest

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/viam-labs/wpilog-parquet/internal/wpierr"
)

// FileExt is the extension used for manifest files.
const FileExt = ".jsonl"

// Entry is one line of the manifest: the outcome of converting a single
// input file.
type Entry struct {
	InputPath  string `json:"input_path"`
	OutputDir  string `json:"output_dir"`
	NumRecords int    `json:"num_records"`
	NumChunks  int    `json:"num_chunks"`
	ChunkSize  int    `json:"chunk_size"`
	Error      string `json:"error,omitempty"`
}

// File is a mutex-guarded, append-only manifest file.
type File struct {
	path   string
	lock   sync.Mutex
	file   *os.File
	writer *bufio.Writer
	size   int64
}

// New creates (or truncates) a manifest file at runDir/manifest.jsonl,
// creating runDir if it does not already exist.
func New(runDir string) (*File, error) {
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, wpierr.NewIoError(err, "creating manifest directory %s", runDir)
	}
	path := filepath.Join(runDir, "manifest"+FileExt)
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return nil, wpierr.NewIoError(err, "creating manifest file %s", path)
	}
	return &File{path: path, file: f, writer: bufio.NewWriter(f)}, nil
}

// WriteEntry appends one JSON-encoded entry followed by a newline.
func (f *File) WriteEntry(e Entry) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	encoded, err := json.Marshal(e)
	if err != nil {
		return wpierr.Wrap(wpierr.Io, err, "encoding manifest entry for %s", e.InputPath)
	}
	n, err := f.writer.Write(append(encoded, '\n'))
	if err != nil {
		return wpierr.NewIoError(err, "writing manifest entry to %s", f.path)
	}
	f.size += int64(n)
	return nil
}

// Sync flushes buffered writes to the underlying file.
func (f *File) Sync() error {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.writer.Flush()
}

// Size returns the number of bytes written so far.
func (f *File) Size() int64 {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.size
}

// GetPath returns the manifest's filesystem path.
func (f *File) GetPath() string {
	return f.path
}

// Close flushes and closes the underlying file.
func (f *File) Close() error {
	if err := f.Sync(); err != nil {
		return err
	}
	return f.file.Close()
}
