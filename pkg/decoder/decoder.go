// Package decoder reads the self-describing value format used by the data
// and metadata sections of a MaxMind DB image.
package decoder

import (
	"go-mmdb/pkg/customerrors"
	"go-mmdb/pkg/types"
)

// DefaultMaxDepth bounds nesting of maps, arrays and pointer chains.
const DefaultMaxDepth = 512

// Decoder decodes values from buf. Pointers are resolved relative to
// base: the data section start for records, the metadata start for
// metadata. Decoder never mutates buf and is safe for concurrent use.
type Decoder struct {
	buf      []byte
	base     uint
	maxDepth int
}

type Option func(d *Decoder)

func WithMaxDepth(depth int) Option {
	return func(d *Decoder) {
		if depth > 0 {
			d.maxDepth = depth
		}
	}
}

func New(buf []byte, baseOffset uint, opts ...Option) *Decoder {
	d := &Decoder{
		buf:      buf,
		base:     baseOffset,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode decodes the value at the absolute offset and returns it together
// with the offset of the byte that follows its encoding. A pointer is
// replaced by the value it points to, but the returned offset only skips
// the pointer itself.
func (d *Decoder) Decode(offset uint) (types.DataType, uint, error) {
	return d.decode(offset, 0)
}

func (d *Decoder) decode(offset uint, depth int) (types.DataType, uint, error) {
	if depth > d.maxDepth {
		return nil, 0, customerrors.NewFormatError(offset, "exceeded maximum data structure depth of %d", d.maxDepth)
	}

	code, size, offset, err := d.decodeCtrl(offset)
	if err != nil {
		return nil, 0, err
	}

	if code == types.TYPE_POINTER {
		target, next, err := d.decodePointer(size, offset)
		if err != nil {
			return nil, 0, err
		}
		v, _, err := d.decode(target, depth+1)
		if err != nil {
			return nil, 0, err
		}
		return v, next, nil
	}

	return d.decodeFromType(code, size, offset, depth)
}

// decodeCtrl reads the control byte at offset plus any extended type and
// size bytes. For pointers size holds the raw low 5 bits of the control
// byte.
func (d *Decoder) decodeCtrl(offset uint) (types.TypeCode, uint, uint, error) {
	if offset >= uint(len(d.buf)) {
		return 0, 0, 0, customerrors.NewOffsetError(offset)
	}
	ctrl := d.buf[offset]
	offset++

	code := types.TypeCode(ctrl >> 5)
	if code == types.TYPE_EXTENDED {
		if offset >= uint(len(d.buf)) {
			return 0, 0, 0, customerrors.NewOffsetError(offset)
		}
		ext := uint(d.buf[offset]) + 7
		if ext < 8 || ext > uint(types.TYPE_FLOAT) {
			return 0, 0, 0, customerrors.NewFormatError(offset, "invalid extended type %d", ext)
		}
		code = types.TypeCode(ext)
		offset++
	}

	if code == types.TYPE_POINTER {
		return code, uint(ctrl & 0x1f), offset, nil
	}

	size, offset, err := d.sizeFromCtrl(ctrl, offset)
	if err != nil {
		return 0, 0, 0, err
	}
	return code, size, offset, nil
}
