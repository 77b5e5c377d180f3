package wpilog

import "math"

// writeLE appends the low n bytes of v, little-endian, to buf.
func writeLE(buf []byte, v uint64, n int) []byte {
	for i := 0; i < n; i++ {
		buf = append(buf, byte(v>>(8*uint(i))))
	}
	return buf
}

// buildHeader constructs a minimal wpilog file header.
func buildHeader(version uint16, extraHeader string) []byte {
	buf := []byte(fileMagic)
	buf = writeLE(buf, uint64(version), 2)
	buf = writeLE(buf, uint64(len(extraHeader)), 4)
	buf = append(buf, extraHeader...)
	return buf
}

// buildRecord frames one record using fixed 4-byte entry/size fields and an
// 8-byte timestamp field (header byte 0x7F), which is always large enough
// regardless of the values under test.
func buildRecord(entry uint32, ts uint64, payload []byte) []byte {
	headerByte := byte(3) | byte(3)<<2 | byte(7)<<4 // entryLen=4, sizeLen=4, tsLen=8
	buf := []byte{headerByte}
	buf = writeLE(buf, uint64(entry), 4)
	buf = writeLE(buf, uint64(len(payload)), 4)
	buf = writeLE(buf, ts, 8)
	buf = append(buf, payload...)
	return buf
}

func lenPrefixed(s string) []byte {
	buf := writeLE(nil, uint64(len(s)), 4)
	return append(buf, s...)
}

// buildStartPayload builds a Start control record's complete payload: the
// leading control-tag byte, the entry id, and the length-prefixed name, type
// and metadata strings.
func buildStartPayload(entry uint32, name, typ, metadata string) []byte {
	buf := []byte{controlStart}
	buf = writeLE(buf, uint64(entry), 4)
	buf = append(buf, lenPrefixed(name)...)
	buf = append(buf, lenPrefixed(typ)...)
	buf = append(buf, lenPrefixed(metadata)...)
	return buf
}

func buildFinishPayload(entry uint32) []byte {
	buf := []byte{controlFinish}
	buf = writeLE(buf, uint64(entry), 4)
	return buf
}

func buildSetMetadataPayload(entry uint32, metadata string) []byte {
	buf := []byte{controlSetMetadata}
	buf = writeLE(buf, uint64(entry), 4)
	buf = append(buf, lenPrefixed(metadata)...)
	return buf
}

func f64Bytes(v float64) []byte {
	return writeLE(nil, math.Float64bits(v), 8)
}

func f32Bytes(v float32) []byte {
	return writeLE(nil, uint64(math.Float32bits(v)), 4)
}
