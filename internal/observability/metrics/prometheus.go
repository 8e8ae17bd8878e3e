// Package metrics provides Prometheus metrics for the evaluation pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics
type Metrics struct {
	EncountersEvaluated   prometheus.Counter
	EvaluationsByStatus   *prometheus.CounterVec
	EvaluationErrors      prometheus.Counter
	EvaluationDuration    prometheus.Histogram
	BatchRowsRead         prometheus.Counter
	BatchRowsRejected     prometheus.Counter
	ActiveBatches         prometheus.Gauge
	KafkaMessagesProduced prometheus.Counter
	KafkaMessagesConsumed prometheus.Counter
	DeadLetterMessages    prometheus.Counter
	CircuitBreakerState   *prometheus.GaugeVec
}

// New creates and registers all metrics
func New() *Metrics {
	m := &Metrics{
		EncountersEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "encounters_evaluated_total",
			Help: "Total encounters run through the indicator engine",
		}),
		EvaluationsByStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evaluations_total",
			Help: "Per-indicator evaluation outcomes",
		}, []string{"indicator", "status"}),
		EvaluationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "evaluation_errors_total",
			Help: "Evaluations that ended in an error status",
		}),
		EvaluationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "encounter_evaluation_duration_seconds",
			Help:    "Time to evaluate one encounter across all indicators",
			Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1},
		}),
		BatchRowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "batch_rows_read_total",
			Help: "CSV rows read by the batch runner",
		}),
		BatchRowsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "batch_rows_rejected_total",
			Help: "CSV rows rejected before evaluation",
		}),
		ActiveBatches: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "batches_active",
			Help: "Batch runs currently in progress",
		}),
		KafkaMessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kafka_messages_produced_total",
			Help: "Total Kafka messages produced",
		}),
		KafkaMessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Total Kafka messages consumed",
		}),
		DeadLetterMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dead_letter_messages_total",
			Help: "Messages routed to the dead letter topic",
		}),
		CircuitBreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		}, []string{"name"}),
	}

	prometheus.MustRegister(
		m.EncountersEvaluated,
		m.EvaluationsByStatus,
		m.EvaluationErrors,
		m.EvaluationDuration,
		m.BatchRowsRead,
		m.BatchRowsRejected,
		m.ActiveBatches,
		m.KafkaMessagesProduced,
		m.KafkaMessagesConsumed,
		m.DeadLetterMessages,
		m.CircuitBreakerState,
	)

	return m
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
