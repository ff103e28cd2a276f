// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics exposes Prometheus metrics for reference fetches,
// evaluations and HTTP requests on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pdiddy/research-companion/internal/reference"
)

const namespace = "research_companion"

// Evaluation outcomes.
const (
	EvaluationScored = "scored"
	EvaluationShort  = "short"
	EvaluationFailed = "error"
)

// Metrics holds the collectors of one process.
type Metrics struct {
	registry *prometheus.Registry

	fetches         *prometheus.CounterVec
	fetchedDocs     prometheus.Histogram
	evaluations     *prometheus.CounterVec
	scores          prometheus.Histogram
	requestDuration *prometheus.HistogramVec
	historySize     prometheus.Gauge
}

// New creates and registers the collectors, including the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reference_fetches_total",
			Help:      "Reference lookups by outcome (hit, miss, error).",
		}, []string{"outcome"}),
		fetchedDocs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reference_documents",
			Help:      "Number of reference documents returned per lookup.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Paragraph evaluations by outcome (scored, short, error).",
		}, []string{"outcome"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "paragraph_score",
			Help:      "Distribution of combined paragraph scores.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status code.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"route", "code"}),
		historySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_size",
			Help:      "Number of paragraphs in the submission history.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.fetches, m.fetchedDocs, m.evaluations, m.scores, m.requestDuration, m.historySize,
	)
	return m
}

// ObserveFetch records the outcome of a reference lookup.
func (m *Metrics) ObserveFetch(source reference.Source, docs int, err error) {
	outcome := "miss"
	switch {
	case err != nil:
		outcome = "error"
	case source == reference.SourceCache:
		outcome = "hit"
	}
	m.fetches.WithLabelValues(outcome).Inc()
	if err == nil {
		m.fetchedDocs.Observe(float64(docs))
	}
}

// ObserveEvaluation records an evaluation outcome and, when scored, its score.
func (m *Metrics) ObserveEvaluation(outcome string, score float64) {
	m.evaluations.WithLabelValues(outcome).Inc()
	if outcome == EvaluationScored {
		m.scores.Observe(score)
	}
}

// ObserveRequest records the latency of one HTTP request.
func (m *Metrics) ObserveRequest(route string, code int, d time.Duration) {
	m.requestDuration.WithLabelValues(route, strconv.Itoa(code)).Observe(d.Seconds())
}

// SetHistorySize reports the current history length.
func (m *Metrics) SetHistorySize(n int) {
	m.historySize.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
