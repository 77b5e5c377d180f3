package wpilog

import "github.com/viam-labs/wpilog-parquet/internal/wpierr"

// EntryInfo is the metadata a Start control record (optionally refined by
// later Set-Metadata records) attaches to an entry id.
type EntryInfo struct {
	Name             string
	Type             string
	Metadata         string
	StartTimestampUs uint64
}

// Directory tracks the Unknown -> Live -> Finished -> Live entry-id state
// machine. Only Live entries are held in memory; an id's absence from live
// means it is either Unknown (never started) or Finished (started, then
// finished) -- Directory does not distinguish the two, since no operation
// needs to.
type Directory struct {
	live map[uint32]EntryInfo
}

// NewDirectory constructs an empty entry directory.
func NewDirectory() *Directory {
	return &Directory{live: make(map[uint32]EntryInfo)}
}

// ApplyStart transitions id into the Live state. Re-starting an id that is
// already Live is an InvalidEntry error: the wpilog format never reuses an id
// without an intervening Finish.
func (d *Directory) ApplyStart(id uint32, name, typ, metadata string, ts uint64) error {
	if _, live := d.live[id]; live {
		return wpierr.NewInvalidEntryError("entry %d started while already live", id)
	}
	d.live[id] = EntryInfo{Name: name, Type: typ, Metadata: metadata, StartTimestampUs: ts}
	return nil
}

// ApplyFinish transitions id out of the Live state. wasLive reports whether
// id was actually Live beforehand; a Finish for an id that was never
// started is left for the caller to treat as a recoverable oddity, not
// enforced here.
func (d *Directory) ApplyFinish(id uint32) (wasLive bool) {
	if _, live := d.live[id]; !live {
		return false
	}
	delete(d.live, id)
	return true
}

// ApplyMetadata updates the Metadata field of a Live entry. Applying
// metadata to an id that is not Live is an InvalidEntry error.
func (d *Directory) ApplyMetadata(id uint32, metadata string) error {
	info, live := d.live[id]
	if !live {
		return wpierr.NewInvalidEntryError("set-metadata for entry %d which is not live", id)
	}
	info.Metadata = metadata
	d.live[id] = info
	return nil
}

// Lookup returns the current EntryInfo for id and whether it is Live.
func (d *Directory) Lookup(id uint32) (EntryInfo, bool) {
	info, ok := d.live[id]
	return info, ok
}
