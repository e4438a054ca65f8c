// Package metrics declares the Prometheus collectors exported by photoframe.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values stay bounded: validation kinds and export states are fixed
// sets, no template or export ids.
var (
	TemplateValidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "photoframe_template_validations_total",
		Help: "Template validations by source and result kind (ok for valid documents).",
	}, []string{"source", "result"})

	ExportJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "photoframe_export_jobs_total",
		Help: "Export jobs that reached a final state, by state.",
	}, []string{"status"})

	ExportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "photoframe_export_duration_seconds",
		Help:    "Time spent planning one export job.",
		Buckets: prometheus.DefBuckets,
	})
)

// ObserveValidation counts one validation outcome. kind is the empty
// string for a valid document.
func ObserveValidation(source, kind string) {
	if kind == "" {
		kind = "ok"
	}
	TemplateValidations.WithLabelValues(source, kind).Inc()
}
