package decoder

import (
	"go-mmdb/pkg/customerrors"
	"go-mmdb/util/helpers"
)

// pointerBase is added to the packed value of each pointer size class.
// Class 3 carries a full 32 bit value and ignores the control byte bits.
var pointerBase = [4]uint{0, 2048, 526336, 0}

// decodePointer resolves a pointer whose control byte low bits are ctrl and
// whose trailing bytes start at offset. It returns the absolute target and
// the offset after the pointer.
func (d *Decoder) decodePointer(ctrl uint, offset uint) (uint, uint, error) {
	class := (ctrl >> 3) & 0x3
	n := class + 1
	end := offset + n
	if end > uint(len(d.buf)) {
		return 0, 0, customerrors.NewOffsetError(offset)
	}

	packed := uint(helpers.Uint(d.buf[offset:end]))
	if class != 3 {
		packed |= (ctrl & 0x7) << (8 * n)
	}

	return d.base + pointerBase[class] + packed, end, nil
}
