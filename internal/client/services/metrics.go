package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// QueueMetrics are the offline queue counters exposed on the client's
// metrics endpoint.
type QueueMetrics struct {
	Enqueued      prometheus.Counter
	Flushed       prometheus.Counter
	FlushFailures prometheus.Counter
	Depth         prometheus.Gauge
}

// NewQueueMetrics registers the queue metrics on reg. A nil reg creates
// unregistered collectors.
func NewQueueMetrics(reg prometheus.Registerer) *QueueMetrics {
	f := promauto.With(reg)
	return &QueueMetrics{
		Enqueued: f.NewCounter(prometheus.CounterOpts{
			Name: "budget_queue_enqueued_total",
			Help: "Offline actions appended to the queue.",
		}),
		Flushed: f.NewCounter(prometheus.CounterOpts{
			Name: "budget_queue_flushed_total",
			Help: "Offline actions delivered to the server.",
		}),
		FlushFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "budget_queue_flush_failures_total",
			Help: "Offline action deliveries that failed.",
		}),
		Depth: f.NewGauge(prometheus.GaugeOpts{
			Name: "budget_queue_depth",
			Help: "Offline actions waiting for delivery.",
		}),
	}
}
