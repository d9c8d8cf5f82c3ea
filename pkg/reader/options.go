package reader

import (
	"go-mmdb/pkg/cache"
	"go-mmdb/pkg/decoder"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultCacheSize is the number of lookup results kept when Options
// leaves CacheSize unset.
const DefaultCacheSize = 10000

type Options struct {
	// CacheSize bounds the LRU result cache. Negative disables caching.
	CacheSize int

	// Cache replaces the built-in LRU. Entries carry the prefix length of
	// the lookup that filled them so hits report it unchanged.
	Cache cache.Cache

	// Registerer receives the cache hit, miss and eviction counters of the
	// built-in LRU. Nil keeps them unregistered.
	Registerer prometheus.Registerer

	// MaxDecodeDepth bounds nested maps, arrays and pointer chains.
	MaxDecodeDepth int
}

func DefaultOptions() *Options {
	return &Options{
		CacheSize:      DefaultCacheSize,
		MaxDecodeDepth: decoder.DefaultMaxDepth,
	}
}

func (o *Options) cache() (cache.Cache, error) {
	if o.Cache != nil {
		return o.Cache, nil
	}
	if o.CacheSize < 0 {
		return nil, nil
	}
	size := o.CacheSize
	if size == 0 {
		size = DefaultCacheSize
	}
	return cache.NewLRU(size, cache.NewMetrics(o.Registerer))
}
