package tree

import (
	"go-mmdb/pkg/customerrors"
	"go-mmdb/util/helpers"
)

// recordReader reads one child record of the node starting at offset.
type recordReader func(buf []byte, offset uint) uint

// readers is the left/right record reader pair for one record size.
type readers struct {
	nodeSize uint
	left     recordReader
	right    recordReader
}

func read24Left(buf []byte, offset uint) uint {
	return uint(helpers.Uint(buf[offset : offset+3]))
}

func read24Right(buf []byte, offset uint) uint {
	return uint(helpers.Uint(buf[offset+3 : offset+6]))
}

// In a 28 bit node the middle byte holds the top nibble of both records:
// the high nibble belongs to the left record, the low one to the right.
func read28Left(buf []byte, offset uint) uint {
	return uint(buf[offset+3]&0xf0)<<20 | uint(helpers.Uint(buf[offset:offset+3]))
}

func read28Right(buf []byte, offset uint) uint {
	return uint(buf[offset+3]&0x0f)<<24 | uint(helpers.Uint(buf[offset+4:offset+7]))
}

func read32Left(buf []byte, offset uint) uint {
	return uint(helpers.Uint(buf[offset : offset+4]))
}

func read32Right(buf []byte, offset uint) uint {
	return uint(helpers.Uint(buf[offset+4 : offset+8]))
}

func newReaders(recordSize uint) (readers, error) {
	switch recordSize {
	case 24:
		return readers{nodeSize: 6, left: read24Left, right: read24Right}, nil
	case 28:
		return readers{nodeSize: 7, left: read28Left, right: read28Right}, nil
	case 32:
		return readers{nodeSize: 8, left: read32Left, right: read32Right}, nil
	default:
		return readers{}, &customerrors.UnsupportedRecordSizeError{Size: recordSize}
	}
}
