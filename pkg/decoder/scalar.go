package decoder

import (
	"go-mmdb/pkg/customerrors"
	"go-mmdb/pkg/types"
	"go-mmdb/util/helpers"
)

// maxSize is the largest payload accepted for the fixed width numeric types.
var maxSize = map[types.TypeCode]uint{
	types.TYPE_UINT16:  2,
	types.TYPE_UINT32:  4,
	types.TYPE_INT32:   4,
	types.TYPE_UINT64:  8,
	types.TYPE_UINT128: 16,
}

func (d *Decoder) decodeFromType(code types.TypeCode, size uint, offset uint, depth int) (types.DataType, uint, error) {
	switch code {
	case types.TYPE_MAP:
		return d.decodeMap(size, offset, depth)
	case types.TYPE_ARRAY:
		return d.decodeArray(size, offset, depth)
	case types.TYPE_BOOLEAN:
		return types.Bool(size != 0), offset, nil
	case types.TYPE_CONTAINER, types.TYPE_END_MARKER:
		return nil, 0, customerrors.NewFormatError(offset, "unexpected %s in data section", code)
	}

	end := offset + size
	if end < offset || end > uint(len(d.buf)) {
		return nil, 0, customerrors.NewOffsetError(offset)
	}
	b := d.buf[offset:end]

	if limit, ok := maxSize[code]; ok && size > limit {
		return nil, 0, customerrors.NewFormatError(offset, "invalid size %d for %s", size, code)
	}

	switch code {
	case types.TYPE_STRING:
		return types.String(b), end, nil
	case types.TYPE_BYTES:
		cp := make([]byte, size)
		copy(cp, b)
		return types.Bytes(cp), end, nil
	case types.TYPE_DOUBLE:
		if size != 8 {
			return nil, 0, customerrors.NewFormatError(offset, "invalid size %d for double", size)
		}
		return types.Double(helpers.Float64(b)), end, nil
	case types.TYPE_FLOAT:
		if size != 4 {
			return nil, 0, customerrors.NewFormatError(offset, "invalid size %d for float", size)
		}
		return types.Float(helpers.Float32(b)), end, nil
	case types.TYPE_UINT16:
		return types.Uint16(helpers.Uint(b)), end, nil
	case types.TYPE_UINT32:
		return types.Uint32(helpers.Uint(b)), end, nil
	case types.TYPE_INT32:
		return types.Int32(helpers.Int32(b)), end, nil
	case types.TYPE_UINT64:
		return types.Uint64(helpers.Uint(b)), end, nil
	case types.TYPE_UINT128:
		return types.Uint128FromBytes(b), end, nil
	default:
		return nil, 0, customerrors.NewFormatError(offset, "unknown type %s", code)
	}
}
