package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters for the match/fallback/sync pipeline.
type Metrics struct {
	GraphMatches   prometheus.Counter
	APIFallbacks   prometheus.Counter
	RegistryErrors prometheus.Counter
	CacheWrites    prometheus.Counter
	SyncFailures   prometheus.Counter
}

// NewMetrics registers and returns the application metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GraphMatches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "clinect",
			Name:      "smart_match_graph_total",
			Help:      "Smart-match requests served from the graph fast path.",
		}),
		APIFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "clinect",
			Name:      "smart_match_fallback_total",
			Help:      "Smart-match requests that fell back to the trial registry.",
		}),
		RegistryErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "clinect",
			Name:      "registry_errors_total",
			Help:      "Failed calls to the external trial registry.",
		}),
		CacheWrites: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "clinect",
			Name:      "trial_cache_writes_total",
			Help:      "Trial documents upserted into the document cache.",
		}),
		SyncFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "clinect",
			Name:      "graph_sync_failures_total",
			Help:      "Best-effort graph sync attempts that failed and were swallowed.",
		}),
	}
}
