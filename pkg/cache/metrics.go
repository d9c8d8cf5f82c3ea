package cache

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Hits      prometheus.Counter
	Misses    prometheus.Counter
	Evictions prometheus.Counter
}

// NewMetrics creates the cache counters and registers them with reg when
// reg is not nil. Counters already registered with reg are reused, so
// readers replacing each other keep counting into the same series.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mmdb",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Lookups answered from the result cache.",
		}),
		Misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mmdb",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Lookups that had to walk the search tree.",
		}),
		Evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mmdb",
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Entries evicted from the result cache.",
		}),
	}
	if reg != nil {
		m.Hits = register(reg, m.Hits)
		m.Misses = register(reg, m.Misses)
		m.Evictions = register(reg, m.Evictions)
	}
	return m
}

func register(reg prometheus.Registerer, c prometheus.Counter) prometheus.Counter {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
			return existing
		}
	}
	panic(err)
}
