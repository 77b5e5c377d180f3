package parquetio

import "fmt"

// WriteStats summarizes one Write call: how many rows and chunk files were
// produced, and the chunk size the writer was configured with.
type WriteStats struct {
	NumRecords int
	NumChunks  int
	ChunkSize  int
}

// Summary returns a short human-readable description, e.g. for CLI
// progress output alongside OnChunkWritten.
func (s WriteStats) Summary() string {
	return fmt.Sprintf("%d records across %d chunk(s) of up to %d rows", s.NumRecords, s.NumChunks, s.ChunkSize)
}

func (s WriteStats) String() string {
	return s.Summary()
}
