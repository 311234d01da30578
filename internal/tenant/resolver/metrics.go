package resolver

import "github.com/prometheus/client_golang/prometheus"

// Metrics tracks resolver cache behavior. A nil *Metrics is a no-op so tests
// can construct caches without touching the default registry.
type Metrics struct {
	hits            prometheus.Counter
	misses          prometheus.Counter
	sharedFetches   prometheus.Counter
	directoryErrors prometheus.Counter
}

// NewMetrics registers resolver counters on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shopkeeper_tenant_cache_hits_total",
			Help: "Tenant resolutions served from cache.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shopkeeper_tenant_cache_misses_total",
			Help: "Tenant resolutions that required a directory fetch.",
		}),
		sharedFetches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shopkeeper_tenant_cache_shared_fetches_total",
			Help: "Resolutions that joined an in-flight fetch instead of issuing their own.",
		}),
		directoryErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shopkeeper_tenant_directory_errors_total",
			Help: "Directory fetches that failed or timed out.",
		}),
	}
	reg.MustRegister(m.hits, m.misses, m.sharedFetches, m.directoryErrors)
	return m
}

func (m *Metrics) hit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.misses.Inc()
	}
}

func (m *Metrics) sharedFetch() {
	if m != nil {
		m.sharedFetches.Inc()
	}
}

func (m *Metrics) directoryError() {
	if m != nil {
		m.directoryErrors.Inc()
	}
}
