package helpers

import (
	"encoding/binary"
	"math"
)

// bin is the byte order of every multi-byte integer and float in an image.
var bin = binary.BigEndian

// Uint reads up to 8 big-endian bytes as an unsigned integer. An empty
// slice yields 0.
func Uint(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

// Int32 reads up to 4 big-endian bytes. Short values are zero padded on the
// left, so only a full 4-byte value can be negative.
func Int32(b []byte) int32 {
	return int32(uint32(Uint(b)))
}

func Float32(b []byte) float32 {
	return math.Float32frombits(bin.Uint32(b))
}

func Float64(b []byte) float64 {
	return math.Float64frombits(bin.Uint64(b))
}

// GetBit returns bit idx of addr counting from the most significant bit of
// the first byte.
func GetBit(addr []byte, idx int) uint {
	return uint(addr[idx>>3]>>(7-uint(idx&7))) & 1
}
