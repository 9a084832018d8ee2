package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, path, and status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kanoon_requests_total",
		Help: "Total HTTP requests processed.",
	}, []string{"method", "path", "status"})

	// SimplifyDuration tracks end-to-end mediator latency per input kind (text, image).
	SimplifyDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kanoon_simplify_duration_seconds",
		Help:    "Time spent simplifying a document, including text extraction.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"kind"})

	// Failures counts mediator errors by error kind.
	Failures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kanoon_simplify_failures_total",
		Help: "Simplification requests that ended in an error, by error kind.",
	}, []string{"kind"})

	InputChars = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kanoon_input_chars",
		Help:    "Number of characters in submitted or extracted document text.",
		Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 7500, 10000},
	})
)
