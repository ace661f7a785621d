package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	tradesIngested   *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	epochTransitions *prometheus.CounterVec
	latency          *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		tradesIngested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "atx_trades_ingested_total",
				Help: "Total number of trades ingested per source",
			},
			[]string{"source"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "atx_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		epochTransitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "atx_epoch_transitions_total",
				Help: "Epoch state machine transitions by kind",
			},
			[]string{"kind"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "atx_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordTradeIngested records a trade accepted into the store.
func (r *Recorder) RecordTradeIngested(source string) {
	r.tradesIngested.WithLabelValues(source).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordEpochTransition records an epoch state machine transition.
func (r *Recorder) RecordEpochTransition(kind string) {
	r.epochTransitions.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
