package config

import (
	"time"

	"go-mmdb/pkg/decoder"
	"go-mmdb/pkg/reader"
	"go-mmdb/pkg/reloader"

	"github.com/pkg/errors"
)

type ReaderConfig struct {
	DatabasePath string `yaml:"database_path"`

	// CacheSize of 0 uses the reader default, a negative size disables
	// the cache.
	CacheSize      int           `yaml:"cache_size"`
	MaxDecodeDepth int           `yaml:"max_decode_depth"`
	ReloadInterval time.Duration `yaml:"reload_interval"`
}

func NewReaderConfig() *ReaderConfig {
	return &ReaderConfig{
		CacheSize:      reader.DefaultCacheSize,
		MaxDecodeDepth: decoder.DefaultMaxDepth,
	}
}

func (c *ReaderConfig) Options() *reader.Options {
	opts := reader.DefaultOptions()
	opts.CacheSize = c.CacheSize
	if c.MaxDecodeDepth > 0 {
		opts.MaxDecodeDepth = c.MaxDecodeDepth
	}
	return opts
}

// Reloader opens DatabasePath and keeps it current, polling every
// ReloadInterval. A zero interval loads once.
func (c *ReaderConfig) Reloader() (*reloader.Reloader, error) {
	if c.DatabasePath == "" {
		return nil, errors.New("no database_path configured")
	}
	return reloader.New(c.DatabasePath, c.ReloadInterval, c.Options())
}
