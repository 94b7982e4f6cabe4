// Package metrics provides the Prometheus metrics registry for race-odds.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "race_odds"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	EvaluationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "evaluations_total",
		Help:      "Total number of last-place probability evaluations",
	})
	InvalidWeightsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invalid_weights_total",
		Help:      "Total number of evaluations rejected for invalid weights",
	})
	SubsetsEnumeratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "subsets_enumerated_total",
		Help:      "Total number of inclusion-exclusion terms evaluated",
	})
	FieldMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "field_mutations_total",
		Help:      "Total number of field mutations by operation and outcome",
	}, []string{"operation", "outcome"})
)

// Gauge metrics
var (
	RunnersInField = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "runners_in_field",
		Help:      "Number of runners in the most recently evaluated field",
	})
	CacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_hit_ratio",
		Help:      "Hit ratio of the evaluation result cache",
	})
)

// Histogram metrics
var (
	EvaluationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "evaluation_duration_seconds",
		Help:      "Duration of exact probability evaluations in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 12),
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(EvaluationsTotal)
		registry.MustRegister(InvalidWeightsTotal)
		registry.MustRegister(SubsetsEnumeratedTotal)
		registry.MustRegister(FieldMutationsTotal)

		registry.MustRegister(RunnersInField)
		registry.MustRegister(CacheHitRatio)

		registry.MustRegister(EvaluationDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// WriteTextfile writes every registered metric to path in the Prometheus
// text exposition format, for collection by a node exporter textfile
// collector.
func WriteTextfile(path string) error {
	if path == "" {
		return fmt.Errorf("metrics textfile path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, GetRegistry()); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// RecordEvaluation records a completed evaluation of a field.
func RecordEvaluation(runners, subsets int, durationSeconds float64) {
	EvaluationsTotal.Inc()
	SubsetsEnumeratedTotal.Add(float64(subsets))
	RunnersInField.Set(float64(runners))
	EvaluationDuration.Observe(durationSeconds)
}

// RecordInvalidWeight records an evaluation rejected for invalid input.
func RecordInvalidWeight() {
	InvalidWeightsTotal.Inc()
}

// RecordFieldMutation records an add, remove or set on the field.
func RecordFieldMutation(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	FieldMutationsTotal.WithLabelValues(operation, outcome).Inc()
}

// UpdateCacheHitRatio updates the cache hit ratio gauge.
func UpdateCacheHitRatio(ratio float64) {
	CacheHitRatio.Set(ratio)
}
