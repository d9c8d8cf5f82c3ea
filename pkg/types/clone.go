package types

// Clone returns a deep copy of v. Maps, arrays and byte slices are copied,
// the remaining values are immutable and returned as is.
func Clone(v DataType) DataType {
	switch t := v.(type) {
	case Map:
		out := make(Map, len(t))
		for k, c := range t {
			out[k] = Clone(c)
		}
		return out
	case Array:
		out := make(Array, len(t))
		for i, c := range t {
			out[i] = Clone(c)
		}
		return out
	case Bytes:
		out := make(Bytes, len(t))
		copy(out, t)
		return out
	default:
		return v
	}
}
