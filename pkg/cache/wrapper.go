package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// LRU evicts the least recently used entry once size entries are held.
type LRU struct {
	size    int
	items   *lru.Cache[string, Entry]
	metrics *Metrics
}

// NewLRU creates an LRU cache of size entries. metrics may be nil.
func NewLRU(size int, metrics *Metrics) (*LRU, error) {
	c := &LRU{size: size, metrics: metrics}
	items, err := lru.NewWithEvict[string, Entry](size, func(string, Entry) {
		if c.metrics != nil {
			c.metrics.Evictions.Inc()
		}
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create lru cache of size %d", size)
	}
	c.items = items
	return c, nil
}

func (c *LRU) Get(key string) (Entry, bool) {
	e, ok := c.items.Get(key)
	if c.metrics != nil {
		if ok {
			c.metrics.Hits.Inc()
		} else {
			c.metrics.Misses.Inc()
		}
	}
	return e, ok
}

func (c *LRU) Add(key string, e Entry) {
	c.items.Add(key, e)
}

// Purge drops every entry. Purged entries are counted as evictions.
func (c *LRU) Purge() {
	c.items.Purge()
}

func (c *LRU) Len() int {
	return c.items.Len()
}

func (c *LRU) Cap() int {
	return c.size
}
