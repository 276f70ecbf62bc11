package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	providerRequests *prometheus.CounterVec
	cacheEvents      *prometheus.CounterVec
	rangePosition    *prometheus.GaugeVec
	latency          *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		providerRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sectorpulse_provider_requests_total",
				Help: "Provider fetches by outcome",
			},
			[]string{"provider", "outcome"},
		),
		cacheEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sectorpulse_cache_events_total",
				Help: "Cache hits, misses and degraded stores by key prefix",
			},
			[]string{"key", "event"},
		),
		rangePosition: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sectorpulse_sector_range_position",
				Help: "Last 52-week range position per sector proxy",
			},
			[]string{"sector"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sectorpulse_operation_duration_seconds",
				Help:    "Duration of composite operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordProviderRequest records the outcome of one provider fetch.
func (r *Recorder) RecordProviderRequest(provider, outcome string) {
	r.providerRequests.WithLabelValues(provider, outcome).Inc()
}

// RecordCacheEvent records a cache hit, miss or degraded store.
func (r *Recorder) RecordCacheEvent(key, event string) {
	r.cacheEvents.WithLabelValues(key, event).Inc()
}

// RecordRangePosition records the last range position for a sector proxy.
func (r *Recorder) RecordRangePosition(sector string, position float64) {
	r.rangePosition.WithLabelValues(sector).Set(position)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
