package query

import (
	"encoding/binary"
	"math"
)

// writeFloat64 stores v as a little-endian IEEE-754 double at offset in
// blob. Numeric elements are always sized 8 bytes (sizeOfMetric), so every
// non-string metric lands here regardless of its logical integer type.
func writeFloat64(blob []byte, offset int, v float64) {
	if offset < 0 || offset+8 > len(blob) {
		return
	}
	binary.LittleEndian.PutUint64(blob[offset:offset+8], math.Float64bits(v))
}

// writeString stores s null-terminated in blob[offset:offset+width],
// truncating to width-1 bytes if necessary, per §4.6.2's 260-byte string
// cap.
func writeString(blob []byte, offset, width int, s string) {
	if offset < 0 || offset+width > len(blob) || width == 0 {
		return
	}
	field := blob[offset : offset+width]
	for i := range field {
		field[i] = 0
	}
	n := len(s)
	if n > width-1 {
		n = width - 1
	}
	copy(field[:n], s[:n])
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
