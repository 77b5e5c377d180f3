package project

import "math"

func writeLE(buf []byte, v uint64, n int) []byte {
	for i := 0; i < n; i++ {
		buf = append(buf, byte(v>>(8*uint(i))))
	}
	return buf
}

func buildHeader() []byte {
	buf := []byte("WPILOG")
	buf = writeLE(buf, 0x0100, 2)
	buf = writeLE(buf, 0, 4)
	return buf
}

func buildRecord(entry uint32, ts uint64, payload []byte) []byte {
	headerByte := byte(3) | byte(3)<<2 | byte(7)<<4
	buf := []byte{headerByte}
	buf = writeLE(buf, uint64(entry), 4)
	buf = writeLE(buf, uint64(len(payload)), 4)
	buf = writeLE(buf, ts, 8)
	return append(buf, payload...)
}

func lenPrefixed(s string) []byte {
	buf := writeLE(nil, uint64(len(s)), 4)
	return append(buf, s...)
}

func buildStartPayload(entry uint32, name, typ, metadata string) []byte {
	buf := []byte{0x00}
	buf = writeLE(buf, uint64(entry), 4)
	buf = append(buf, lenPrefixed(name)...)
	buf = append(buf, lenPrefixed(typ)...)
	buf = append(buf, lenPrefixed(metadata)...)
	return buf
}

func buildFinishPayload(entry uint32) []byte {
	buf := []byte{0x01}
	return writeLE(buf, uint64(entry), 4)
}

func f64Bytes(v float64) []byte {
	return writeLE(nil, math.Float64bits(v), 8)
}
