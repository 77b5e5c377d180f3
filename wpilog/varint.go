package wpilog

// readLEUint reads a little-endian unsigned integer of the given width
// (1..8 bytes) from b. Callers guarantee len(b) >= width.
func readLEUint(b []byte, width int) uint64 {
	var v uint64
	for i := 0; i < width; i++ {
		v |= uint64(b[i]) << (8 * uint(i))
	}
	return v
}
