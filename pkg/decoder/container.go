package decoder

import (
	"go-mmdb/pkg/customerrors"
	"go-mmdb/pkg/types"
	"go-mmdb/util/helpers"
)

// preallocation is capped so a corrupt size cannot force a huge allocation
// before any element has been read.
const maxPrealloc = 64

func (d *Decoder) decodeMap(size uint, offset uint, depth int) (types.DataType, uint, error) {
	m := make(types.Map, helpers.Min(size, maxPrealloc))
	for i := uint(0); i < size; i++ {
		key, next, err := d.decode(offset, depth+1)
		if err != nil {
			return nil, 0, err
		}
		k, ok := key.(types.String)
		if !ok {
			return nil, 0, customerrors.NewFormatError(offset, "map key must be a string, got %s", key.GetCode())
		}

		val, next, err := d.decode(next, depth+1)
		if err != nil {
			return nil, 0, err
		}
		m[string(k)] = val
		offset = next
	}
	return m, offset, nil
}

func (d *Decoder) decodeArray(size uint, offset uint, depth int) (types.DataType, uint, error) {
	a := make(types.Array, 0, helpers.Min(size, maxPrealloc))
	for i := uint(0); i < size; i++ {
		val, next, err := d.decode(offset, depth+1)
		if err != nil {
			return nil, 0, err
		}
		a = append(a, val)
		offset = next
	}
	return a, offset, nil
}
