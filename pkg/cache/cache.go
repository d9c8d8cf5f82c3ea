// Package cache keeps decoded lookup results keyed by the query string.
package cache

import (
	"go-mmdb/pkg/types"
)

// Entry is a cached lookup result. The prefix length is stored with the
// value so a hit reports the same specificity as the lookup that filled it.
type Entry struct {
	Value        types.DataType
	PrefixLength int
}

// Cache is safe for concurrent use.
type Cache interface {
	Get(key string) (Entry, bool)
	Add(key string, e Entry)
	Purge()
	Len() int

	// Cap is the maximum number of entries, 0 for a cache that stores
	// nothing.
	Cap() int
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(string) (Entry, bool) { return Entry{}, false }
func (Noop) Add(string, Entry)        {}
func (Noop) Purge()                   {}
func (Noop) Len() int                 { return 0 }
func (Noop) Cap() int                 { return 0 }
