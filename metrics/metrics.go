// Package metrics exposes prometheus instrumentation for the analysis
// pipeline on a private registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type AnalysisMetrics struct {
	registry *prometheus.Registry

	analysesTotal       *prometheus.CounterVec
	analysisDuration    prometheus.Histogram
	rubricScore         *prometheus.HistogramVec
	persistenceFailures prometheus.Counter
	fetchRetries        prometheus.Counter
}

func NewAnalysisMetrics(service string) *AnalysisMetrics {
	registry := prometheus.NewRegistry()

	analysesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "citelens",
			Subsystem: "engine",
			Name:      "analyses_total",
			Help:      "Total analyses by outcome.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
		[]string{"outcome"},
	)
	analysisDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "citelens",
			Subsystem: "engine",
			Name:      "analysis_duration_seconds",
			Help:      "Scoring pipeline duration in seconds.",
			Buckets:   prometheus.DefBuckets,
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	rubricScore := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "citelens",
			Subsystem: "engine",
			Name:      "rubric_score",
			Help:      "Distribution of rubric scores per analysis.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
		[]string{"rubric"},
	)
	persistenceFailures := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "citelens",
			Subsystem: "engine",
			Name:      "persistence_failures_total",
			Help:      "Total fire-and-forget persistence failures (logged, never propagated).",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	fetchRetries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "citelens",
			Subsystem: "fetcher",
			Name:      "retries_total",
			Help:      "Total fetch attempts beyond the first.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(
		analysesTotal,
		analysisDuration,
		rubricScore,
		persistenceFailures,
		fetchRetries,
	)

	return &AnalysisMetrics{
		registry:            registry,
		analysesTotal:       analysesTotal,
		analysisDuration:    analysisDuration,
		rubricScore:         rubricScore,
		persistenceFailures: persistenceFailures,
		fetchRetries:        fetchRetries,
	}
}

func (m *AnalysisMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *AnalysisMetrics) RecordAnalysis(outcome string, duration time.Duration, scores map[string]float64) {
	m.analysesTotal.WithLabelValues(outcome).Inc()
	m.analysisDuration.Observe(duration.Seconds())
	for rubric, score := range scores {
		m.rubricScore.WithLabelValues(rubric).Observe(score)
	}
}

func (m *AnalysisMetrics) RecordPersistenceFailure() {
	m.persistenceFailures.Inc()
}

func (m *AnalysisMetrics) RecordFetchRetry() {
	m.fetchRetries.Inc()
}
