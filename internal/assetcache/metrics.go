package assetcache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcomes reported in assetcache_requests_total.
const (
	resultHit    = "hit"
	resultMiss   = "miss"
	resultBypass = "bypass"
	resultNone   = "unavailable"
)

type Metrics struct {
	Requests        *prometheus.CounterVec
	Stored          prometheus.Counter
	RefreshFailures prometheus.Counter
	Generations     prometheus.Gauge
}

// NewMetrics registers the cache metrics on reg. A nil reg creates
// unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "assetcache_requests_total",
			Help: "Requests seen by the asset cache by lookup result.",
		}, []string{"result"}),
		Stored: f.NewCounter(prometheus.CounterOpts{
			Name: "assetcache_stored_total",
			Help: "Responses written into the current generation.",
		}),
		RefreshFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "assetcache_refresh_failures_total",
			Help: "Live fetches that failed at the transport level.",
		}),
		Generations: f.NewGauge(prometheus.GaugeOpts{
			Name: "assetcache_generations",
			Help: "Cache generations present after the last activation.",
		}),
	}
}
