package reader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go-mmdb/pkg/cache"
	"go-mmdb/pkg/customerrors"
	"go-mmdb/pkg/mmdbtest"
	"go-mmdb/pkg/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

var tokyo = types.Map{
	"city": types.Map{
		"geoname_id": types.Uint32(1850147),
		"names": types.Map{
			"en": types.String("Tokyo"),
			"ja": types.String("東京"),
		},
	},
	"country": types.Map{
		"iso_code": types.String("JP"),
		"names": types.Map{
			"de": types.String("Japan"),
			"ja": types.String("日本"),
		},
	},
	"location": types.Map{
		"latitude":  types.Double(35.6895),
		"longitude": types.Double(139.6917),
	},
}

var network = types.Map{
	"network": types.String("1.0.0.0/8"),
}

func buildDB(t *testing.T, ipVersion, recordSize int) []byte {
	t.Helper()
	b := mmdbtest.NewBuilder(ipVersion, recordSize)
	b.DatabaseType = "GeoIP2-City"
	b.Languages = []string{"en", "ja"}
	b.DedupStrings = true
	require.NoError(t, b.Insert("1.0.0.0/8", network))
	require.NoError(t, b.Insert("1.0.16.0/20", tokyo))
	if ipVersion == 6 {
		require.NoError(t, b.Insert("2001:db8::/32", types.Map{"network": types.String("2001:db8::/32")}))
	}
	img, err := b.Build()
	require.NoError(t, err)
	return img
}

func TestGetWithPrefixLength(t *testing.T) {
	for _, recordSize := range []int{24, 28, 32} {
		t.Run(fmt.Sprint(recordSize), func(t *testing.T) {
			r, err := FromBytes(buildDB(t, 4, recordSize), nil)
			require.NoError(t, err)

			// 1.0.16.0/20 splits the /8, 1.1.x.x branches off at bit 15
			res := r.GetWithPrefixLength("1.1.1.1")
			require.Equal(t, network, res.Value)
			require.Equal(t, 16, res.PrefixLength)

			res = r.GetWithPrefixLength("1.0.17.5")
			require.Equal(t, tokyo, res.Value)
			require.Equal(t, 20, res.PrefixLength)

			// 2.x.x.x leaves the 1.0.0.0/8 path at the 7th bit
			res = r.GetWithPrefixLength("2.2.2.2")
			require.Nil(t, res.Value)
			require.Equal(t, 7, res.PrefixLength)
		})
	}
}

func TestSingleNetworkPrefixLength(t *testing.T) {
	b := mmdbtest.NewBuilder(4, 28)
	require.NoError(t, b.Insert("1.0.0.0/8", types.String("one")))
	img, err := b.Build()
	require.NoError(t, err)

	r, err := FromBytes(img, nil)
	require.NoError(t, err)

	require.Equal(t, Result{Value: types.String("one"), PrefixLength: 8}, r.GetWithPrefixLength("1.1.1.1"))
	require.Equal(t, Result{Value: types.String("one"), PrefixLength: 8}, r.GetWithPrefixLength("1.255.0.9"))
	// served from the cache the second time
	require.Equal(t, Result{Value: types.String("one"), PrefixLength: 8}, r.GetWithPrefixLength("1.1.1.1"))
}

func TestIPv4InIPv6Database(t *testing.T) {
	r, err := FromBytes(buildDB(t, 6, 28), nil)
	require.NoError(t, err)

	for _, ip := range []string{"1.1.1.1", "1.0.17.5", "9.9.9.9"} {
		v4 := r.GetWithPrefixLength(ip)
		v6 := r.GetWithPrefixLength("::" + ip)
		require.Equal(t, v4.Value, v6.Value, ip)
		require.Equal(t, v4.PrefixLength+96, v6.PrefixLength, ip)
	}

	res := r.GetWithPrefixLength("2001:db8::1")
	require.Equal(t, types.String("2001:db8::/32"), res.Value.(types.Map)["network"])
	require.Equal(t, 32, res.PrefixLength)
}

func TestIPv6AddressInIPv4Database(t *testing.T) {
	r, err := FromBytes(buildDB(t, 4, 24), nil)
	require.NoError(t, err)

	_, err = r.Lookup("2001:db8::1")
	require.True(t, errors.Is(err, customerrors.ErrInvalidAddress))

	var addrErr *customerrors.InvalidAddressError
	require.True(t, errors.As(err, &addrErr))
	require.Equal(t, "2001:db8::1", addrErr.Addr)

	require.Equal(t, Result{}, r.GetWithPrefixLength("2001:db8::1"))
}

func TestGetWithLanguage(t *testing.T) {
	r, err := FromBytes(buildDB(t, 6, 24), nil)
	require.NoError(t, err)

	ja := r.GetWithLanguage("1.0.16.1", "ja").(types.Map)
	require.Equal(t, types.String("東京"), ja.Get("city", "name"))
	require.Equal(t, types.String("日本"), ja.Get("country", "name"))

	fr := r.GetWithLanguage("1.0.16.1", "fr").(types.Map)
	require.Equal(t, types.String("Tokyo"), fr.Get("city", "name"))
	// no English name, lowest language key wins
	require.Equal(t, types.String("Japan"), fr.Get("country", "name"))

	// the cached record is left untouched
	raw := r.Get("1.0.16.1").(types.Map)
	require.Nil(t, raw.Get("city", "name"))
	require.Equal(t, tokyo, raw)

	require.Equal(t, network, r.GetWithLanguage("1.1.1.1", "ja"))
	require.Nil(t, r.GetWithLanguage("8.8.8.8", "ja"))
}

func TestInvalidAddress(t *testing.T) {
	r, err := FromBytes(buildDB(t, 4, 24), nil)
	require.NoError(t, err)

	for _, ip := range []string{"", "not-an-ip", "1.2.3", "1.1.1.1/8"} {
		require.Equal(t, Result{}, r.GetWithPrefixLength(ip), ip)
		require.Nil(t, r.Get(ip))

		_, err := r.Lookup(ip)
		require.True(t, errors.Is(err, customerrors.ErrInvalidAddress), ip)
	}
	require.Equal(t, 0, r.CacheStats().Size)
}

func TestCachedLookups(t *testing.T) {
	reg := prometheus.NewRegistry()
	opts := DefaultOptions()
	opts.CacheSize = 2
	opts.Registerer = reg
	r, err := FromBytes(buildDB(t, 4, 28), opts)
	require.NoError(t, err)
	require.Equal(t, &CacheStats{Size: 0, MaxSize: 2}, r.CacheStats())

	first := r.GetWithPrefixLength("1.0.16.1")
	second := r.GetWithPrefixLength("1.0.16.1")
	require.Equal(t, first, second)
	require.Equal(t, 20, second.PrefixLength)
	require.Equal(t, 1, r.CacheStats().Size)

	// not found results are not cached
	r.Get("8.8.8.8")
	require.Equal(t, 1, r.CacheStats().Size)

	r.Get("1.1.1.1")
	r.Get("1.2.3.4")
	require.Equal(t, 2, r.CacheStats().Size)

	r.ClearCache()
	require.Equal(t, 0, r.CacheStats().Size)

	expected := `
# HELP mmdb_cache_hits_total Lookups answered from the result cache.
# TYPE mmdb_cache_hits_total counter
mmdb_cache_hits_total 1
# HELP mmdb_cache_misses_total Lookups that had to walk the search tree.
# TYPE mmdb_cache_misses_total counter
mmdb_cache_misses_total 4
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "mmdb_cache_hits_total", "mmdb_cache_misses_total"))
}

type spyCache struct {
	cache.Noop
	entries map[string]cache.Entry
}

func (c *spyCache) Get(key string) (cache.Entry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

func (c *spyCache) Add(key string, e cache.Entry) {
	c.entries[key] = e
}

func TestCacheHitReportsStoredPrefixLength(t *testing.T) {
	spy := &spyCache{entries: map[string]cache.Entry{}}
	r, err := FromBytes(buildDB(t, 4, 24), &Options{Cache: spy})
	require.NoError(t, err)

	r.Get("1.1.1.1")
	require.Equal(t, cache.Entry{Value: network, PrefixLength: 16}, spy.entries["1.1.1.1"])

	spy.entries["1.1.1.1"] = cache.Entry{Value: types.String("cached"), PrefixLength: 3}
	require.Equal(t, Result{Value: types.String("cached"), PrefixLength: 3}, r.GetWithPrefixLength("1.1.1.1"))
}

func TestCachedValueIsolatedFromCallers(t *testing.T) {
	for _, size := range []int{-1, 16} {
		t.Run(fmt.Sprint(size), func(t *testing.T) {
			r, err := FromBytes(buildDB(t, 4, 24), &Options{CacheSize: size})
			require.NoError(t, err)

			first := r.Get("1.0.16.1").(types.Map)
			first["network"] = types.String("mutated")
			first["city"].(types.Map)["names"].(types.Map)["en"] = types.String("mutated")

			require.Equal(t, tokyo, r.Get("1.0.16.1"))
			require.Equal(t, tokyo, r.Get("1.0.16.1"))
		})
	}
}

func TestCacheDisabled(t *testing.T) {
	r, err := FromBytes(buildDB(t, 4, 24), &Options{CacheSize: -1})
	require.NoError(t, err)
	require.Nil(t, r.CacheStats())
	require.Equal(t, network, r.Get("1.1.1.1"))
	r.ClearCache()
}

// corruptDB has a single node: the left record points at a data section
// holding an extended control byte for a type below 8.
func corruptDB(t *testing.T) []byte {
	t.Helper()
	node, err := mmdbtest.EncodeNode(24, 1+16, 1)
	require.NoError(t, err)
	return mmdbtest.Image(node, []byte{0x00, 0x00}, types.Map{
		"binary_format_major_version": types.Uint16(2),
		"binary_format_minor_version": types.Uint16(0),
		"build_epoch":                 types.Uint64(1700000000),
		"database_type":               types.String("Corrupt"),
		"ip_version":                  types.Uint16(4),
		"languages":                   types.Array{},
		"node_count":                  types.Uint32(1),
		"record_size":                 types.Uint16(24),
	})
}

func TestCorruptRecord(t *testing.T) {
	r, err := FromBytes(corruptDB(t), nil)
	require.NoError(t, err)

	_, err = r.Lookup("1.1.1.1")
	require.True(t, errors.Is(err, customerrors.ErrInvalidDatabase))

	require.Equal(t, Result{PrefixLength: 1}, r.GetWithPrefixLength("1.1.1.1"))
	require.Nil(t, r.GetWithLanguage("1.1.1.1", "en"))
	require.Equal(t, 0, r.CacheStats().Size)

	require.Equal(t, Result{PrefixLength: 1}, r.GetWithPrefixLength("128.0.0.1"))
}

func TestLoadFailure(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)
	require.False(t, r.Loaded())

	err = r.Load([]byte("definitely not a database"))
	require.True(t, errors.Is(err, customerrors.ErrInvalidDatabase))
	require.False(t, r.Loaded())
	require.Nil(t, r.Metadata())
	require.Equal(t, "", r.DatabaseType())
	require.Nil(t, r.Languages())
	require.Nil(t, r.Get("1.1.1.1"))

	_, err = r.Lookup("1.1.1.1")
	require.ErrorIs(t, err, customerrors.ErrNotLoaded)
	_, err = r.Networks()
	require.ErrorIs(t, err, customerrors.ErrNotLoaded)

	// a failed reload keeps the database that was loaded before
	require.NoError(t, r.Load(buildDB(t, 4, 24)))
	require.Error(t, r.Load(buildDB(t, 4, 24)[:40]))
	require.True(t, r.Loaded())
	require.Equal(t, network, r.Get("1.1.1.1"))
}

func TestLoadReplacesDatabase(t *testing.T) {
	r, err := FromBytes(buildDB(t, 4, 24), nil)
	require.NoError(t, err)
	require.Equal(t, network, r.Get("1.1.1.1"))
	require.Equal(t, 1, r.CacheStats().Size)

	b := mmdbtest.NewBuilder(4, 24)
	b.DatabaseType = "Other"
	require.NoError(t, b.Insert("1.0.0.0/8", types.String("replaced")))
	img, err := b.Build()
	require.NoError(t, err)

	require.NoError(t, r.Load(img))
	require.Equal(t, 0, r.CacheStats().Size)
	require.Equal(t, "Other", r.DatabaseType())
	require.Equal(t, types.String("replaced"), r.Get("1.1.1.1"))
}

func TestMetadataAccessors(t *testing.T) {
	r, err := FromBytes(buildDB(t, 6, 32), nil)
	require.NoError(t, err)

	require.True(t, r.Loaded())
	require.Equal(t, "GeoIP2-City", r.DatabaseType())
	require.Equal(t, []string{"en", "ja"}, r.Languages())

	m := r.Metadata()
	require.Equal(t, uint(6), m.IPVersion)
	require.Equal(t, uint(32), m.RecordSize)
	require.Equal(t, uint(2), m.BinaryFormatMajorVersion)
}

func TestNetworksAndDecode(t *testing.T) {
	r, err := FromBytes(buildDB(t, 6, 24), nil)
	require.NoError(t, err)

	s, err := r.Networks()
	require.NoError(t, err)

	found := map[string]types.DataType{}
	for _, n := range s.Slice() {
		require.NoError(t, n.Err)
		v, err := r.Decode(n.Record)
		require.NoError(t, err)
		found[n.Prefix.String()] = v
	}
	require.Equal(t, tokyo, found["1.0.16.0/20"])
	require.Equal(t, network, found["1.128.0.0/9"])
	require.Contains(t, found, "2001:db8::/32")
}

func TestConcurrentLookups(t *testing.T) {
	opts := DefaultOptions()
	opts.CacheSize = 16
	r, err := FromBytes(buildDB(t, 6, 28), opts)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				res := r.GetWithPrefixLength(fmt.Sprintf("1.0.%d.%d", 16+i%16, w))
				if res.Value == nil || res.PrefixLength != 20 {
					t.Errorf("unexpected result %+v", res)
					return
				}
			}
		}(w)
	}
	wg.Wait()
}

func TestFactory(t *testing.T) {
	img := buildDB(t, 4, 24)

	r, err := FromBytes(string(img), nil)
	require.NoError(t, err)
	require.Equal(t, network, r.Get("1.1.1.1"))

	r, err = FromReader(bytes.NewReader(img), nil)
	require.NoError(t, err)
	require.Equal(t, tokyo, r.Get("1.0.16.1"))

	path := filepath.Join(t.TempDir(), "test.mmdb")
	require.NoError(t, os.WriteFile(path, img, 0o644))
	r, err = Open(path, nil)
	require.NoError(t, err)
	require.Equal(t, "GeoIP2-City", r.DatabaseType())

	_, err = Open(filepath.Join(t.TempDir(), "missing.mmdb"), nil)
	require.Error(t, err)

	_, err = FromBytes([]byte{}, nil)
	require.ErrorIs(t, err, customerrors.ErrInvalidDatabase)
}
