package middleware

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tiller-ui/tiller/pkg/router"
)

// MetricsConfig configures the Prometheus navigation metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "tiller").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus navigation metrics.
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

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "tiller",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// navMetrics holds the Prometheus metrics for one attached router.
type navMetrics struct {
	navigationsTotal *prometheus.CounterVec
	duration         *prometheus.HistogramVec

	mu      sync.Mutex
	started time.Time
	pending bool
}

// Prometheus attaches navigation metrics to a router and returns a detach
// func that removes the listeners again.
//
// Exported series:
//   - navigations_total{route, phase}: lifecycle events seen, with phase one
//     of "started", "committed", "completed". A route whose "started" count
//     runs ahead of its "completed" count was cancelled in between.
//   - navigation_duration_seconds{route}: time from BeforeRouteChange to
//     RouteChangeComplete.
//
// Example:
//
//	detach := middleware.Prometheus(r,
//	    middleware.WithNamespace("myapp"),
//	)
//	defer detach()
func Prometheus(r *router.Router, opts ...MetricsOption) (detach func()) {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)
	m := &navMetrics{
		navigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of navigation lifecycle events",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "phase"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Navigation duration from before-change to completion",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),
	}

	cancelBefore := r.ListenFor(router.BeforeRouteChange, func(next, prev router.PathState) error {
		m.navigationsTotal.WithLabelValues(next.CurrentRoute, "started").Inc()
		m.mu.Lock()
		m.started = time.Now()
		m.pending = true
		m.mu.Unlock()
		return nil
	})

	cancelAfter := r.ListenFor(router.AfterRouteChange, func(next, prev router.PathState) error {
		m.navigationsTotal.WithLabelValues(next.CurrentRoute, "committed").Inc()
		return nil
	})

	cancelComplete := r.ListenFor(router.RouteChangeComplete, func(next, prev router.PathState) error {
		m.navigationsTotal.WithLabelValues(next.CurrentRoute, "completed").Inc()
		m.mu.Lock()
		if m.pending {
			m.duration.WithLabelValues(next.CurrentRoute).Observe(time.Since(m.started).Seconds())
			m.pending = false
		}
		m.mu.Unlock()
		return nil
	})

	return func() {
		cancelBefore()
		cancelAfter()
		cancelComplete()
	}
}
