package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus fetch metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "loadable").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for fetch duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus fetch metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace:   "loadable",
		Subsystem:   "",
		ConstLabels: nil,
		Buckets:     prometheus.DefBuckets,
		Registry:    prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus collectors for fetch instrumentation.
type metrics struct {
	fetchesTotal  *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	inflight      prometheus.Gauge
}

// Collectors are registered once per process; the first Prometheus() call
// wins the configuration.
var (
	globalMetricsMu sync.Mutex
	globalMetrics   *metrics
)

// initMetrics registers the fetch collectors.
func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		fetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "fetches_total",
			Help:        "Total number of fetches by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		fetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "fetch_duration_seconds",
			Help:        "Fetch duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		inflight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "inflight_fetches",
			Help:        "Number of fetches currently in flight",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Prometheus wraps fetch with Prometheus instrumentation.
//
// Metrics collected:
//   - loadable_fetches_total: Counter of fetches by outcome
//     (success, error, canceled)
//   - loadable_fetch_duration_seconds: Histogram of fetch duration
//   - loadable_inflight_fetches: Gauge of in-flight fetches
//
// Example:
//
//	fetch := middleware.Prometheus(fetchUsers,
//	    middleware.WithNamespace("myapp"),
//	)
func Prometheus[Q, T any](fetch Fetch[Q, T], opts ...MetricsOption) Fetch[Q, T] {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return func(ctx context.Context, query Q) (T, error) {
		m.inflight.Inc()
		start := time.Now()

		result, err := fetch(ctx, query)

		m.inflight.Dec()
		m.fetchDuration.Observe(time.Since(start).Seconds())

		switch {
		case err == nil:
			m.fetchesTotal.WithLabelValues("success").Inc()
		case ctx.Err() != nil:
			m.fetchesTotal.WithLabelValues("canceled").Inc()
		default:
			m.fetchesTotal.WithLabelValues("error").Inc()
		}
		return result, err
	}
}
