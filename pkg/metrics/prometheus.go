package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var scoreBuckets = []float64{10, 20, 30, 40, 50, 60, 70, 75, 80, 90, 100}

// PrometheusMetrics holds all Prometheus metrics
type PrometheusMetrics struct {
	registry *prometheus.Registry

	// Evaluation metrics
	EvaluationsTotal  prometheus.Counter
	EvaluationLatency prometheus.Histogram

	// Score metrics
	ConfidenceScore *prometheus.HistogramVec
	ViabilityScore  *prometheus.HistogramVec

	// Risk metrics
	RisksTotal         *prometheus.CounterVec
	InterventionsTotal prometheus.Counter

	// Token budget metrics
	TokensUsed    prometheus.Histogram
	HandoffsTotal prometheus.Counter

	// Cache metrics
	TokenCacheHitsTotal   prometheus.Counter
	TokenCacheMissesTotal prometheus.Counter

	// Serving metrics
	RateLimitedTotal prometheus.Counter
}

// NewPrometheusMetrics registers the metrics on a fresh registry
func NewPrometheusMetrics() *PrometheusMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		registry: reg,

		EvaluationsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ideation_evaluations_total",
				Help: "Total number of state evaluations",
			},
		),

		EvaluationLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ideation_evaluation_latency_seconds",
				Help:    "Evaluation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		ConfidenceScore: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ideation_confidence_score",
				Help:    "Distribution of confidence totals",
				Buckets: scoreBuckets,
			},
			[]string{"ready"},
		),

		ViabilityScore: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ideation_viability_score",
				Help:    "Distribution of viability totals",
				Buckets: scoreBuckets,
			},
			[]string{"band"},
		),

		RisksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ideation_risks_total",
				Help: "Total number of viability risks emitted",
			},
			[]string{"kind", "severity"},
		),

		InterventionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ideation_interventions_total",
				Help: "Total number of evaluations that required intervention",
			},
		),

		TokensUsed: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ideation_tokens_used",
				Help:    "Estimated context tokens per turn",
				Buckets: prometheus.LinearBuckets(10000, 10000, 10),
			},
		),

		HandoffsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ideation_handoffs_total",
				Help: "Total number of turns that crossed the handoff threshold",
			},
		),

		TokenCacheHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ideation_token_cache_hits_total",
				Help: "Total number of token count cache hits",
			},
		),

		TokenCacheMissesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ideation_token_cache_misses_total",
				Help: "Total number of token count cache misses",
			},
		),

		RateLimitedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ideation_rate_limited_total",
				Help: "Total number of evaluation requests rejected by the session rate limit",
			},
		),
	}
}

// Registry returns the registry the metrics live on
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordEvaluation records one evaluation and its latency
func (m *PrometheusMetrics) RecordEvaluation(duration time.Duration) {
	m.EvaluationsTotal.Inc()
	m.EvaluationLatency.Observe(duration.Seconds())
}

// RecordConfidence records a confidence total
func (m *PrometheusMetrics) RecordConfidence(total int, ready bool) {
	label := "false"
	if ready {
		label = "true"
	}
	m.ConfidenceScore.WithLabelValues(label).Observe(float64(total))
}

// RecordViability records a viability total and whether it required intervention
func (m *PrometheusMetrics) RecordViability(total int, band string, intervention bool) {
	m.ViabilityScore.WithLabelValues(band).Observe(float64(total))
	if intervention {
		m.InterventionsTotal.Inc()
	}
}

// RecordRisk records an emitted risk
func (m *PrometheusMetrics) RecordRisk(kind, severity string) {
	m.RisksTotal.WithLabelValues(kind, severity).Inc()
}

// RecordTokens records the estimated tokens of a turn
func (m *PrometheusMetrics) RecordTokens(total int, handoff bool) {
	m.TokensUsed.Observe(float64(total))
	if handoff {
		m.HandoffsTotal.Inc()
	}
}

// RecordCacheHit records a token cache hit
func (m *PrometheusMetrics) RecordCacheHit() {
	m.TokenCacheHitsTotal.Inc()
}

// RecordCacheMiss records a token cache miss
func (m *PrometheusMetrics) RecordCacheMiss() {
	m.TokenCacheMissesTotal.Inc()
}

// RecordRateLimited records a throttled evaluation request
func (m *PrometheusMetrics) RecordRateLimited() {
	m.RateLimitedTotal.Inc()
}
