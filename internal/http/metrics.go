package http

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"youtubetitle/internal/core"
)

type Metrics struct {
	ItemsTotal     prometheus.Counter
	FieldsSetTotal *prometheus.CounterVec
	ErrorsTotal    *prometheus.CounterVec
	ProcessingTime prometheus.Histogram
}

// NewMetrics creates the service metrics and registers them with registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		ItemsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "youtubetitle_items_total",
				Help: "Total number of items processed",
			},
		),
		FieldsSetTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "youtubetitle_fields_set_total",
				Help: "Total number of metadata fields filled in",
			},
			[]string{"field"},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "youtubetitle_errors_total",
				Help: "Total number of rejected requests",
			},
			[]string{"type"},
		),
		ProcessingTime: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "youtubetitle_processing_duration_seconds",
				Help:    "Time spent cleaning one item",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	registry.MustRegister(
		metrics.ItemsTotal,
		metrics.FieldsSetTotal,
		metrics.ErrorsTotal,
		metrics.ProcessingTime,
	)

	return metrics
}

// RecordItem implements core.Recorder.
func (m *Metrics) RecordItem(changes core.Changes) {
	m.ItemsTotal.Inc()
	for _, field := range changes.Fields() {
		m.FieldsSetTotal.WithLabelValues(field).Inc()
	}
}

func (m *Metrics) RecordError(errorType string) {
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.ProcessingTime.Observe(duration.Seconds())
}
