// Package metrics exposes Prometheus instrumentation for the
// fact-check service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics tracks analysis outcomes and timings.
type BusinessMetrics struct {
	AnalysesTotal     *prometheus.CounterVec
	UpstreamErrors    *prometheus.CounterVec
	AnalysisDuration  prometheus.Histogram
	CredibilityScores prometheus.Histogram
}

// NewBusinessMetrics registers the service metrics under the given
// namespace with the default registerer.
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	return &BusinessMetrics{
		AnalysesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Total fact-check analyses by outcome.",
		}, []string{"outcome"}),
		UpstreamErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_errors_total",
			Help:      "Failed Gemini API calls by kind.",
		}, []string{"kind"}),
		AnalysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "End-to-end analysis duration including the upstream call.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 15, 30, 60},
		}),
		CredibilityScores: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "credibility_score",
			Help:      "Distribution of credibility scores returned to callers.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
	}
}
