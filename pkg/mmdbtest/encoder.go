// Package mmdbtest builds MaxMind DB images for tests. It covers the subset
// of the writer side that the reader tests need and is not meant for
// producing production databases.
package mmdbtest

import (
	"encoding/binary"
	"math"

	"go-mmdb/pkg/types"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Encoder appends encoded values to an in-memory section. Offsets are
// relative to the first byte written by the encoder.
type Encoder struct {
	buf []byte

	// Dedup writes repeated strings as pointers to their first occurrence.
	Dedup   bool
	strings map[string]uint
}

func NewEncoder() *Encoder {
	return &Encoder{strings: map[string]uint{}}
}

func (e *Encoder) Bytes() []byte { return e.buf }

func (e *Encoder) Len() uint { return uint(len(e.buf)) }

// Raw appends b unchanged and returns its offset.
func (e *Encoder) Raw(b ...byte) uint {
	off := e.Len()
	e.buf = append(e.buf, b...)
	return off
}

// Encode appends v and returns its offset. Map keys are written in sorted
// order.
func (e *Encoder) Encode(v types.DataType) uint {
	off := e.Len()

	switch t := v.(type) {
	case types.String:
		if e.Dedup {
			if prev, ok := e.strings[string(t)]; ok {
				return e.EncodePointer(prev)
			}
			e.strings[string(t)] = off
		}
		e.Ctrl(types.TYPE_STRING, uint(len(t)))
		e.buf = append(e.buf, t...)
	case types.Bytes:
		e.Ctrl(types.TYPE_BYTES, uint(len(t)))
		e.buf = append(e.buf, t...)
	case types.Double:
		e.Ctrl(types.TYPE_DOUBLE, 8)
		e.buf = binary.BigEndian.AppendUint64(e.buf, math.Float64bits(float64(t)))
	case types.Float:
		e.Ctrl(types.TYPE_FLOAT, 4)
		e.buf = binary.BigEndian.AppendUint32(e.buf, math.Float32bits(float32(t)))
	case types.Uint16:
		e.uint(types.TYPE_UINT16, uint64(t))
	case types.Uint32:
		e.uint(types.TYPE_UINT32, uint64(t))
	case types.Uint64:
		e.uint(types.TYPE_UINT64, uint64(t))
	case types.Int32:
		if t < 0 {
			e.Ctrl(types.TYPE_INT32, 4)
			e.buf = binary.BigEndian.AppendUint32(e.buf, uint32(t))
		} else {
			e.uint(types.TYPE_INT32, uint64(t))
		}
	case types.Uint128:
		b := binary.BigEndian.AppendUint64(nil, t.Hi)
		b = binary.BigEndian.AppendUint64(b, t.Lo)
		b = trimZeros(b)
		e.Ctrl(types.TYPE_UINT128, uint(len(b)))
		e.buf = append(e.buf, b...)
	case types.Bool:
		size := uint(0)
		if t {
			size = 1
		}
		e.Ctrl(types.TYPE_BOOLEAN, size)
	case types.Map:
		e.Ctrl(types.TYPE_MAP, uint(len(t)))
		keys := maps.Keys(t)
		slices.Sort(keys)
		for _, k := range keys {
			e.Encode(types.String(k))
			e.Encode(t[k])
		}
	case types.Array:
		e.Ctrl(types.TYPE_ARRAY, uint(len(t)))
		for _, item := range t {
			e.Encode(item)
		}
	default:
		panic("mmdbtest: cannot encode value of unknown type")
	}
	return off
}

func (e *Encoder) uint(code types.TypeCode, v uint64) {
	b := trimZeros(binary.BigEndian.AppendUint64(nil, v))
	e.Ctrl(code, uint(len(b)))
	e.buf = append(e.buf, b...)
}

// Ctrl writes a control byte for code and size, including the extended
// type byte and the size extension bytes.
func (e *Encoder) Ctrl(code types.TypeCode, size uint) {
	var sizeBits byte
	var ext []byte
	switch {
	case size < 29:
		sizeBits = byte(size)
	case size < 285:
		sizeBits = 29
		ext = []byte{byte(size - 29)}
	case size < 65821:
		sizeBits = 30
		v := size - 285
		ext = []byte{byte(v >> 8), byte(v)}
	default:
		sizeBits = 31
		v := size - 65821
		ext = []byte{byte(v >> 16), byte(v >> 8), byte(v)}
	}

	if code > 7 {
		e.buf = append(e.buf, sizeBits, byte(code-7))
	} else {
		e.buf = append(e.buf, byte(code)<<5|sizeBits)
	}
	e.buf = append(e.buf, ext...)
}

// EncodePointer writes a pointer to target using the smallest size class
// and returns the pointer's own offset.
func (e *Encoder) EncodePointer(target uint) uint {
	off := e.Len()
	const ptr = byte(types.TYPE_POINTER) << 5
	switch {
	case target < 2048:
		e.buf = append(e.buf, ptr|byte(target>>8)&0x7, byte(target))
	case target < 526336:
		v := target - 2048
		e.buf = append(e.buf, ptr|1<<3|byte(v>>16)&0x7, byte(v>>8), byte(v))
	case target < 526336+1<<27:
		v := target - 526336
		e.buf = append(e.buf, ptr|2<<3|byte(v>>24)&0x7, byte(v>>16), byte(v>>8), byte(v))
	default:
		e.buf = append(e.buf, ptr|3<<3)
		e.buf = binary.BigEndian.AppendUint32(e.buf, uint32(target))
	}
	return off
}

func trimZeros(b []byte) []byte {
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	return b
}
