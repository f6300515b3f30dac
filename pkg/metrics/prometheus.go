package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Run outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Run stages.
const (
	StageRead    = "read"
	StageCompute = "compute"
	StageWrite   = "write"
)

// Manager manages all Prometheus metrics of a ranking run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         *prometheus.Registry

	runs               *prometheus.CounterVec
	stageFailures      *prometheus.CounterVec
	stageDuration      *prometheus.HistogramVec
	players            prometheus.Gauge
	matches            prometheus.Gauge
	dominantEigenvalue prometheus.Gauge
	lastSuccess        prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pacpong",
		subsystem:        "ranking",
		histogramBuckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		enabled:          true,
		customLabels:     make(map[string]string),
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "runs_total",
		Help:        "Total number of ranking runs by outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.stageFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_failures_total",
		Help:        "Total number of failed runs by the stage that failed",
		ConstLabels: labels,
	}, []string{"stage"})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_duration_seconds",
		Help:        "Duration of each run stage in seconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"stage"})

	m.players = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "players",
		Help:        "Number of players in the last computed ranking",
		ConstLabels: labels,
	})

	m.matches = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "matches",
		Help:        "Number of match records read by the last run",
		ConstLabels: labels,
	})

	m.dominantEigenvalue = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dominant_eigenvalue",
		Help:        "Dominant eigenvalue of the last dominance matrix",
		ConstLabels: labels,
	})

	m.lastSuccess = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_success_timestamp_seconds",
		Help:        "Unix time of the last successfully published ranking",
		ConstLabels: labels,
	})
}

// RecordRun counts a finished run.
func (m *Manager) RecordRun(outcome string) {
	if m.enabled {
		m.runs.WithLabelValues(outcome).Inc()
	}
}

// RecordStageFailure counts a run that failed in stage.
func (m *Manager) RecordStageFailure(stage string) {
	if m.enabled {
		m.stageFailures.WithLabelValues(stage).Inc()
	}
}

// ObserveStage records how long a stage took.
func (m *Manager) ObserveStage(stage string, d time.Duration) {
	if m.enabled {
		m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	}
}

// SetMatches records the size of the match log.
func (m *Manager) SetMatches(n int) {
	if m.enabled {
		m.matches.Set(float64(n))
	}
}

// SetRanking records the shape of a computed ranking.
func (m *Manager) SetRanking(players int, eigenvalue float64) {
	if m.enabled {
		m.players.Set(float64(players))
		m.dominantEigenvalue.Set(eigenvalue)
	}
}

// MarkSuccess records the time a ranking was published.
func (m *Manager) MarkSuccess(t time.Time) {
	if m.enabled {
		m.lastSuccess.Set(float64(t.Unix()))
	}
}

// Registry returns the registry the manager's metrics live in.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Push sends the manager's metrics to a Prometheus Pushgateway under job.
// A one-shot run exits before it could be scraped.
func (m *Manager) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrPushFailed, err)
	}
	return nil
}

// RecordRun counts a finished run on the global manager.
func RecordRun(outcome string) { globalManager.RecordRun(outcome) }

// RecordStageFailure counts a failed stage on the global manager.
func RecordStageFailure(stage string) { globalManager.RecordStageFailure(stage) }

// ObserveStage records a stage duration on the global manager.
func ObserveStage(stage string, d time.Duration) { globalManager.ObserveStage(stage, d) }

// SetMatches records the size of the match log on the global manager.
func SetMatches(n int) { globalManager.SetMatches(n) }

// SetRanking records the ranking shape on the global manager.
func SetRanking(players int, eigenvalue float64) { globalManager.SetRanking(players, eigenvalue) }

// MarkSuccess records a publish time on the global manager.
func MarkSuccess(t time.Time) { globalManager.MarkSuccess(t) }

// Push sends the global metrics to a Pushgateway.
func Push(ctx context.Context, url, job string) error { return globalManager.Push(ctx, url, job) }

// Default returns the global manager.
func Default() *Manager { return globalManager }

// GetRegistry returns the custom registry for metrics.
func GetRegistry() *prometheus.Registry { return customRegistry }
