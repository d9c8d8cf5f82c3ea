package metadata

import (
	"bytes"
	"testing"

	"go-mmdb/pkg/customerrors"
	"go-mmdb/pkg/mmdbtest"
	"go-mmdb/pkg/types"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func buildImage(t *testing.T, b *mmdbtest.Builder) []byte {
	t.Helper()
	img, err := b.Build()
	require.NoError(t, err)
	return img
}

func TestParse(t *testing.T) {
	b := mmdbtest.NewBuilder(6, 28)
	b.Languages = []string{"en", "ja"}
	b.Description = map[string]string{"en": "city db", "ja": "都市"}
	require.NoError(t, b.Insert("1.0.0.0/8", types.Map{"a": types.Uint32(1)}))
	img := buildImage(t, b)

	m, err := Parse(img)
	require.NoError(t, err)
	require.NoError(t, m.Validate(uint(len(img))))

	require.Equal(t, uint(2), m.BinaryFormatMajorVersion)
	require.Equal(t, uint(0), m.BinaryFormatMinorVersion)
	require.Equal(t, uint64(1700000000), m.BuildEpoch)
	require.Equal(t, int64(1700000000), m.BuildTime().Unix())
	require.Equal(t, "Test-DB", m.DatabaseType)
	require.Equal(t, []string{"en", "ja"}, m.Languages)
	require.Equal(t, map[string]string{"en": "city db", "ja": "都市"}, m.Description)
	require.Equal(t, uint(6), m.IPVersion)
	require.Equal(t, uint(28), m.RecordSize)

	// 96 nodes for ::/96 and 8 for 1.0.0.0/8
	require.Equal(t, uint(104), m.NodeCount)
	require.Equal(t, uint(7), m.NodeByteSize())
	require.Equal(t, uint(104*7), m.SearchTreeSize())
	require.Equal(t, uint(104*7+16), m.DataSectionStart())
	// map ctrl, "a", uint32 ctrl plus one byte
	require.Equal(t, uint(5), m.DataSectionSize())
	require.Equal(t, 7, m.TreeDepth())
	require.Equal(t, uint(bytes.LastIndex(img, Marker)+len(Marker)), m.Start())
}

func TestParseRecordSizes(t *testing.T) {
	for _, size := range []int{24, 28, 32} {
		b := mmdbtest.NewBuilder(4, size)
		require.NoError(t, b.Insert("10.0.0.0/8", types.String("x")))
		img := buildImage(t, b)

		m, err := Parse(img)
		require.NoError(t, err)
		require.NoError(t, m.Validate(uint(len(img))))
		require.Equal(t, uint(size)/4, m.NodeByteSize())
		require.Equal(t, m.NodeCount*uint(size)/4, m.SearchTreeSize())
	}
}

func TestParseMissingMarker(t *testing.T) {
	_, err := Parse([]byte("no metadata here"))
	require.True(t, errors.Is(err, customerrors.ErrInvalidDatabase))
}

func TestParseUsesLastMarker(t *testing.T) {
	b := mmdbtest.NewBuilder(4, 24)
	require.NoError(t, b.Insert("10.0.0.0/8", types.Bytes(Marker)))
	img := buildImage(t, b)

	m, err := Parse(img)
	require.NoError(t, err)
	require.Equal(t, "Test-DB", m.DatabaseType)
}

func TestParseNotAMap(t *testing.T) {
	img := append([]byte{}, Marker...)
	img = append(img, 0x43, 'a', 'b', 'c')

	_, err := Parse(img)
	var fe *customerrors.FormatError
	require.True(t, errors.As(err, &fe))
}

func TestParseTruncated(t *testing.T) {
	img := append([]byte{}, Marker...)
	img = append(img, 0xe3, 0x41, 'a')

	_, err := Parse(img)
	require.True(t, errors.Is(err, customerrors.ErrInvalidDatabase))
}

func TestParsePartialMetadata(t *testing.T) {
	img := mmdbtest.Image(nil, nil, types.Map{"database_type": types.String("Partial")})

	m, err := Parse(img)
	require.NoError(t, err)
	require.Equal(t, "Partial", m.DatabaseType)
	require.Equal(t, uint(0), m.NodeCount)
	require.Equal(t, []string{}, m.Languages)
	require.Equal(t, map[string]string{}, m.Description)

	err = m.Validate(uint(len(img)))
	require.Error(t, err)
	require.Contains(t, err.Error(), "binary_format_major_version")
}

func TestParseWrongFieldType(t *testing.T) {
	img := mmdbtest.Image(nil, nil, types.Map{
		"database_type": types.Uint32(5),
	})
	_, err := Parse(img)
	require.True(t, errors.Is(err, customerrors.ErrInvalidDatabase))
	require.Contains(t, err.Error(), "database_type")

	img = mmdbtest.Image(nil, nil, types.Map{
		"languages": types.Array{types.String("en"), types.Uint16(1)},
	})
	_, err = Parse(img)
	require.True(t, errors.Is(err, customerrors.ErrInvalidDatabase))
}

func TestParsePointersRelativeToMetadata(t *testing.T) {
	b := mmdbtest.NewBuilder(4, 24)
	require.NoError(t, b.Insert("10.0.0.0/8", types.String("x")))
	img := buildImage(t, b)
	orig, err := Parse(img)
	require.NoError(t, err)

	enc := mmdbtest.NewEncoder()
	enc.Dedup = true
	enc.Encode(types.Map{
		"binary_format_major_version": types.Uint16(2),
		"database_type":               types.String("en"),
		"description":                 types.Map{"en": types.String("en")},
		"ip_version":                  types.Uint16(4),
		"languages":                   types.Array{types.String("en")},
		"node_count":                  types.Uint32(orig.NodeCount),
		"record_size":                 types.Uint16(24),
	})

	cut := bytes.LastIndex(img, Marker) + len(Marker)
	rebuilt := append(append([]byte{}, img[:cut]...), enc.Bytes()...)

	m, err := Parse(rebuilt)
	require.NoError(t, err)
	require.NoError(t, m.Validate(uint(len(rebuilt))))
	require.Equal(t, "en", m.DatabaseType)
	require.Equal(t, []string{"en"}, m.Languages)
	require.Equal(t, map[string]string{"en": "en"}, m.Description)
}

func TestValidate(t *testing.T) {
	b := mmdbtest.NewBuilder(4, 24)
	b.Metadata = map[string]types.DataType{"record_size": types.Uint16(40)}
	require.NoError(t, b.Insert("10.0.0.0/8", types.String("x")))
	b.RecordSize = 24
	img := buildImage(t, b)

	m, err := Parse(img)
	require.NoError(t, err)
	err = m.Validate(uint(len(img)))
	var rse *customerrors.UnsupportedRecordSizeError
	require.True(t, errors.As(err, &rse))
	require.Equal(t, uint(40), rse.Size)

	b.Metadata = map[string]types.DataType{"node_count": types.Uint32(1 << 30)}
	img = buildImage(t, b)
	m, err = Parse(img)
	require.NoError(t, err)
	require.True(t, errors.Is(m.Validate(uint(len(img))), customerrors.ErrInvalidDatabase))

	b.Metadata = map[string]types.DataType{"ip_version": types.Uint16(5)}
	img = buildImage(t, b)
	m, err = Parse(img)
	require.NoError(t, err)
	require.Error(t, m.Validate(uint(len(img))))

	b.Metadata = map[string]types.DataType{"database_type": nil}
	img = buildImage(t, b)
	m, err = Parse(img)
	require.NoError(t, err)
	require.Error(t, m.Validate(uint(len(img))))
}
