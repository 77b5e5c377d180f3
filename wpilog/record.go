package wpilog

// Control record tags, carried in the first byte of a control record's
// payload (entry id 0).
const (
	controlStart       byte = 0x00
	controlFinish      byte = 0x01
	controlSetMetadata byte = 0x02
)

// Record is one framed, undecoded entry from a wpilog record stream: an
// entry id, a microsecond timestamp, and the raw payload bytes. Payload
// decoding and control-record interpretation live in decode.go.
//
// Data borrows directly from the source's backing buffer; it is only valid
// for as long as the Reader that produced it is alive.
type Record struct {
	Entry           uint32
	TimestampMicros uint64
	Data            []byte

	// Offset is the byte offset of this record's header within the file,
	// used to identify the offending record in fatal-error messages.
	Offset int
	// TotalLength is the number of bytes this record occupies, header
	// through payload inclusive.
	TotalLength int
}

// IsControl reports whether this record is a control record (entry id 0).
func (r Record) IsControl() bool {
	return r.Entry == 0
}

func (r Record) controlTag() (byte, bool) {
	if len(r.Data) == 0 {
		return 0, false
	}
	return r.Data[0], true
}

// IsStart reports whether this is a well-formed Start control record.
func (r Record) IsStart() bool {
	tag, ok := r.controlTag()
	return r.IsControl() && ok && len(r.Data) >= 17 && tag == controlStart
}

// IsFinish reports whether this is a well-formed Finish control record.
func (r Record) IsFinish() bool {
	tag, ok := r.controlTag()
	return r.IsControl() && ok && len(r.Data) == 5 && tag == controlFinish
}

// IsSetMetadata reports whether this is a well-formed Set-Metadata control record.
func (r Record) IsSetMetadata() bool {
	tag, ok := r.controlTag()
	return r.IsControl() && ok && len(r.Data) >= 9 && tag == controlSetMetadata
}

// decodeRecordAt decodes the record header (and slices its payload) at byte
// offset pos in src. ok is false with a nil error only at a clean end of
// stream (pos exactly at the end of the file); any other insufficiency,
// including a file that ends even one byte short of a complete header or
// payload, is a hard InvalidFormat error rather than a silent stop.
func decodeRecordAt(src *source, pos int) (rec Record, next int, ok bool, err error) {
	if pos == src.Len() {
		return Record{}, 0, false, nil
	}

	headerByte, err := src.Slice(pos, 1)
	if err != nil {
		return Record{}, 0, false, newTruncatedHeaderError(pos, 1, src.Len()-pos)
	}

	b := headerByte[0]
	entryLen := int(b&0x3) + 1
	sizeLen := int((b>>2)&0x3) + 1
	tsLen := int((b>>4)&0x7) + 1
	headerLen := 1 + entryLen + sizeLen + tsLen

	hdr, err := src.Slice(pos, headerLen)
	if err != nil {
		return Record{}, 0, false, newTruncatedHeaderError(pos, headerLen, src.Len()-pos)
	}

	entry := readLEUint(hdr[1:1+entryLen], entryLen)
	size := readLEUint(hdr[1+entryLen:1+entryLen+sizeLen], sizeLen)
	ts := readLEUint(hdr[1+entryLen+sizeLen:headerLen], tsLen)

	payloadStart := pos + headerLen
	payload, err := src.Slice(payloadStart, int(size))
	if err != nil {
		return Record{}, 0, false, newTruncatedPayloadError(pos, int(size), src.Len()-payloadStart)
	}

	rec = Record{
		Entry:           uint32(entry),
		TimestampMicros: ts,
		Data:            payload,
		Offset:          pos,
		TotalLength:     headerLen + int(size),
	}
	return rec, payloadStart + int(size), true, nil
}
