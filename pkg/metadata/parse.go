package metadata

import (
	"bytes"

	"go-mmdb/pkg/customerrors"
	"go-mmdb/pkg/decoder"
	"go-mmdb/pkg/types"
)

// Parse finds the last metadata marker in image and decodes the map that
// follows it. Missing fields are left at their zero value; use Validate
// before trusting the result.
func Parse(image []byte) (*Metadata, error) {
	idx := bytes.LastIndex(image, Marker)
	if idx == -1 {
		return nil, customerrors.NewFormatError(0, "metadata marker not found")
	}
	start := uint(idx + len(Marker))

	// metadata pointers are relative to the metadata section
	v, _, err := decoder.New(image, start).Decode(start)
	if err != nil {
		return nil, err
	}
	raw, ok := v.(types.Map)
	if !ok {
		return nil, customerrors.NewFormatError(start, "metadata is %s, not a map", v.GetCode())
	}

	f := fields{m: raw, offset: start}
	m := Metadata{
		BinaryFormatMajorVersion: f.getUint("binary_format_major_version"),
		BinaryFormatMinorVersion: f.getUint("binary_format_minor_version"),
		BuildEpoch:               uint64(f.getUint("build_epoch")),
		DatabaseType:             f.getString("database_type"),
		Description:              f.getStringMap("description"),
		IPVersion:                f.getUint("ip_version"),
		Languages:                f.getStrings("languages"),
		NodeCount:                f.getUint("node_count"),
		RecordSize:               f.getUint("record_size"),
		start:                    start,
	}
	if f.err != nil {
		return nil, f.err
	}
	return newMetadata(m), nil
}

// fields reads typed entries from the metadata map, keeping the first
// type mismatch.
type fields struct {
	m      types.Map
	offset uint
	err    error
}

func (f *fields) fail(key string, v types.DataType) {
	if f.err == nil {
		f.err = customerrors.NewFormatError(f.offset, "metadata field '%s' has unexpected type %s", key, v.GetCode())
	}
}

func (f *fields) getUint(key string) uint {
	v, ok := f.m[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case types.Uint16:
		return uint(n)
	case types.Uint32:
		return uint(n)
	case types.Uint64:
		return uint(n)
	case types.Int32:
		if n >= 0 {
			return uint(n)
		}
	case types.Uint128:
		if n.Hi == 0 {
			return uint(n.Lo)
		}
	}
	f.fail(key, v)
	return 0
}

func (f *fields) getString(key string) string {
	v, ok := f.m[key]
	if !ok {
		return ""
	}
	s, ok := v.(types.String)
	if !ok {
		f.fail(key, v)
		return ""
	}
	return string(s)
}

func (f *fields) getStrings(key string) []string {
	v, ok := f.m[key]
	if !ok {
		return []string{}
	}
	a, ok := v.(types.Array)
	if !ok {
		f.fail(key, v)
		return []string{}
	}
	out := make([]string, 0, len(a))
	for _, item := range a {
		s, ok := item.(types.String)
		if !ok {
			f.fail(key, item)
			continue
		}
		out = append(out, string(s))
	}
	return out
}

func (f *fields) getStringMap(key string) map[string]string {
	out := map[string]string{}
	v, ok := f.m[key]
	if !ok {
		return out
	}
	m, ok := v.(types.Map)
	if !ok {
		f.fail(key, v)
		return out
	}
	for k, item := range m {
		s, ok := item.(types.String)
		if !ok {
			f.fail(key, item)
			continue
		}
		out[k] = string(s)
	}
	return out
}
