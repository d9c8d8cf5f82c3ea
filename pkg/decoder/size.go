package decoder

import (
	"go-mmdb/pkg/customerrors"
	"go-mmdb/util/helpers"
)

// Sizes 29, 30 and 31 in the control byte are followed by 1, 2 or 3 bytes
// that are added to these offsets.
const (
	sizeOneByte    = 29
	sizeTwoBytes   = 285
	sizeThreeBytes = 65821
)

func (d *Decoder) sizeFromCtrl(ctrl byte, offset uint) (uint, uint, error) {
	size := uint(ctrl & 0x1f)
	if size < 29 {
		return size, offset, nil
	}

	n := size - 28
	end := offset + n
	if end > uint(len(d.buf)) {
		return 0, 0, customerrors.NewOffsetError(offset)
	}
	v := uint(helpers.Uint(d.buf[offset:end]))

	switch size {
	case 29:
		size = sizeOneByte + v
	case 30:
		size = sizeTwoBytes + v
	default:
		size = sizeThreeBytes + v
	}
	return size, end, nil
}
