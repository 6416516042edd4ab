package gateway

import "github.com/prometheus/client_golang/prometheus"

// Metrics son los contadores del gateway, etiquetados por estrategia.
type Metrics struct {
	hits      *prometheus.CounterVec
	misses    *prometheus.CounterVec
	netErrors *prometheus.CounterVec
	offline   prometheus.Counter
	refetches *prometheus.CounterVec

	startRetries prometheus.Counter
}

// NewMetrics registra los contadores en reg (nil = sin registrar, útil en tests).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "streetpaws", Subsystem: "gateway", Name: "cache_hits_total",
			Help: "Responses served from the cache.",
		}, []string{"strategy"}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "streetpaws", Subsystem: "gateway", Name: "cache_misses_total",
			Help: "Lookups that found no cached response.",
		}, []string{"strategy"}),
		netErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "streetpaws", Subsystem: "gateway", Name: "network_failures_total",
			Help: "Origin fetches that produced no response.",
		}, []string{"strategy"}),
		offline: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "streetpaws", Subsystem: "gateway", Name: "offline_responses_total",
			Help: "Synthetic 503 offline responses for API requests.",
		}),
		refetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "streetpaws", Subsystem: "gateway", Name: "background_refetches_total",
			Help: "Stale-while-revalidate background refetches by result.",
		}, []string{"result"}),
		startRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "streetpaws", Subsystem: "gateway", Name: "start_retries_total",
			Help: "Failed install or activate attempts that will be retried.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.hits, m.misses, m.netErrors, m.offline, m.refetches, m.startRetries)
	}
	return m
}
