package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultNamespace = "hstprep"
	defaultSubsystem = "planner"
)

// defaultBuckets spans 0.1ms to roughly 1.6s, which covers planning a visit
// and rendering a figure.
var defaultBuckets = prometheus.ExponentialBuckets(0.1, 2, 15) //nolint:gochecknoglobals // immutable bucket layout

// Manager manages all Prometheus metrics for the planner.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         *prometheus.Registry

	// Planning
	plansComputed   prometheus.Counter
	planErrors      *prometheus.CounterVec
	planningLatency prometheus.Histogram
	samplePoints    prometheus.Counter

	// Light-curve model
	modelEvaluations prometheus.Counter

	// Presentation
	renderLatency prometheus.Histogram
	renderErrors  prometheus.Counter

	// Last plan
	transitDuration   prometheus.Gauge
	timingUncertainty prometheus.Gauge
	startSlack        prometheus.Gauge
	elapsedOrbits     prometheus.Gauge
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
		namespace:        defaultNamespace,
		subsystem:        defaultSubsystem,
		histogramBuckets: defaultBuckets,
		constLabels:      make(map[string]string),
		registry:         prometheus.NewRegistry(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     m.histogramBuckets,
	}
}

// initializeMetrics creates all the Prometheus metrics on the configured registry.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.plansComputed = auto.NewCounter(m.counterOpts("plans_total", "Total number of visit plans computed"))
	m.planErrors = auto.NewCounterVec(m.counterOpts("plan_errors_total", "Total number of rejected plans by error kind"), []string{"kind"})
	m.planningLatency = auto.NewHistogram(m.histogramOpts("planning_latency_milliseconds", "Time spent planning a visit in milliseconds"))
	m.samplePoints = auto.NewCounter(m.counterOpts("sample_points_total", "Total number of grid timestamps generated"))

	m.modelEvaluations = auto.NewCounter(m.counterOpts("model_evaluations_total", "Total number of timestamps evaluated by the light-curve model"))

	m.renderLatency = auto.NewHistogram(m.histogramOpts("render_latency_milliseconds", "Time spent rendering a coverage figure in milliseconds"))
	m.renderErrors = auto.NewCounter(m.counterOpts("render_errors_total", "Total number of failed figure renders"))

	m.transitDuration = auto.NewGauge(m.gaugeOpts("transit_duration_minutes", "Estimated transit duration of the last plan in minutes"))
	m.timingUncertainty = auto.NewGauge(m.gaugeOpts("timing_uncertainty_minutes", "Propagated mid-time uncertainty of the last plan in minutes"))
	m.startSlack = auto.NewGauge(m.gaugeOpts("start_slack_minutes", "Start-time slack of the last plan in minutes"))
	m.elapsedOrbits = auto.NewGauge(m.gaugeOpts("elapsed_orbits", "Planet orbits between the reference epoch and the last plan"))
}

// Registry returns the registry the manager's metrics live on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// RecordPlan records a successful plan and its headline quantities.
func (m *Manager) RecordPlan(latencyMs float64, points, orbits int, uncertaintyMin, slackMin float64) {
	m.plansComputed.Inc()
	m.planningLatency.Observe(latencyMs)
	m.samplePoints.Add(float64(points))
	m.elapsedOrbits.Set(float64(orbits))
	m.timingUncertainty.Set(uncertaintyMin)
	m.startSlack.Set(slackMin)
}

// RecordPlanError increments the error counter for kind.
func (m *Manager) RecordPlanError(kind string) {
	m.planErrors.WithLabelValues(kind).Inc()
}

// RecordModelEvaluation adds n evaluated timestamps.
func (m *Manager) RecordModelEvaluation(n int) {
	m.modelEvaluations.Add(float64(n))
}

// RecordRender observes a render and counts it as failed when ok is false.
func (m *Manager) RecordRender(latencyMs float64, ok bool) {
	m.renderLatency.Observe(latencyMs)
	if !ok {
		m.renderErrors.Inc()
	}
}

// UpdateTransitDuration sets the last estimated transit duration.
func (m *Manager) UpdateTransitDuration(minutes float64) {
	m.transitDuration.Set(minutes)
}

// WriteTextfile writes the manager's metrics in the text exposition format,
// suitable for the node exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return nil
}

// Global helpers operating on the default manager.

// Default returns the global metrics manager.
func Default() *Manager { return globalManager }

// RecordPlan records a successful plan on the global manager.
func RecordPlan(latencyMs float64, points, orbits int, uncertaintyMin, slackMin float64) {
	globalManager.RecordPlan(latencyMs, points, orbits, uncertaintyMin, slackMin)
}

// RecordPlanError increments the global error counter for kind.
func RecordPlanError(kind string) {
	globalManager.RecordPlanError(kind)
}

// RecordModelEvaluation adds n evaluated timestamps on the global manager.
func RecordModelEvaluation(n int) {
	globalManager.RecordModelEvaluation(n)
}

// RecordRender observes a render on the global manager.
func RecordRender(latencyMs float64, ok bool) {
	globalManager.RecordRender(latencyMs, ok)
}

// UpdateTransitDuration sets the global transit duration gauge.
func UpdateTransitDuration(minutes float64) {
	globalManager.UpdateTransitDuration(minutes)
}

// WriteTextfile exports the global metrics to path.
func WriteTextfile(path string) error {
	return globalManager.WriteTextfile(path)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
