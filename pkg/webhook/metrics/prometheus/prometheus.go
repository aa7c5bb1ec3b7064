package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics implements webhook.Metrics using Prometheus.
type Metrics struct {
	eventsTotal        *prometheus.CounterVec
	processingDuration *prometheus.HistogramVec
	errorsTotal        *prometheus.CounterVec
	unlocksTotal       *prometheus.CounterVec
}

// NewMetrics creates a new Prometheus metrics implementation for the webhook receiver.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "events_total",
			Help:      "Total number of webhook events received from the payment provider.",
		}, []string{"event_type", "status"}),

		processingDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "processing_duration_seconds",
			Help:      "Duration of webhook processing in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"event_type"}),

		errorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "errors_total",
			Help:      "Total number of webhook processing errors.",
		}, []string{"error_type"}),

		unlocksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "unlocks_total",
			Help:      "Total number of purchase-unlock writes.",
		}, []string{"status"}),
	}
}

// RecordEvent implements webhook.Metrics.
func (m *Metrics) RecordEvent(eventType, status string) {
	m.eventsTotal.WithLabelValues(eventType, status).Inc()
}

// RecordProcessingDuration implements webhook.Metrics.
func (m *Metrics) RecordProcessingDuration(eventType string, duration time.Duration) {
	m.processingDuration.WithLabelValues(eventType).Observe(duration.Seconds())
}

// RecordError implements webhook.Metrics.
func (m *Metrics) RecordError(errorType string) {
	m.errorsTotal.WithLabelValues(errorType).Inc()
}

// RecordUnlock implements webhook.Metrics.
func (m *Metrics) RecordUnlock(status string) {
	m.unlocksTotal.WithLabelValues(status).Inc()
}
