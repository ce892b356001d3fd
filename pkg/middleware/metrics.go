package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures stack instrumentation.
type Config struct {
	// Namespace is the metrics namespace (default: "navstack").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer

	// TracerName is the OpenTelemetry tracer name (default: "navstack").
	TracerName string
}

// Option configures stack instrumentation.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

func defaultConfig() Config {
	return Config{
		Namespace:  "navstack",
		Registry:   prometheus.DefaultRegisterer,
		TracerName: "navstack",
	}
}

// metrics holds the Prometheus metrics for one instrumented stack.
type metrics struct {
	pushesTotal  prometheus.Counter
	popsTotal    *prometheus.CounterVec
	movesTotal   prometheus.Counter
	removesTotal prometheus.Counter
	resetsTotal  prometheus.Counter
	pushErrors   prometheus.Counter
	depth        prometheus.Gauge
}

func initMetrics(config Config) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		pushesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pushes_total",
			Help:        "Total number of routes pushed onto the stack",
			ConstLabels: config.ConstLabels,
		}),

		popsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pops_total",
			Help:        "Total number of pop attempts by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		movesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "moves_total",
			Help:        "Total number of push-or-move-to-top operations",
			ConstLabels: config.ConstLabels,
		}),

		removesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "removes_total",
			Help:        "Total number of guard-free removals",
			ConstLabels: config.ConstLabels,
		}),

		resetsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resets_total",
			Help:        "Total number of stack resets",
			ConstLabels: config.ConstLabels,
		}),

		pushErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "push_errors_total",
			Help:        "Total number of pushes aborted by a redirect error",
			ConstLabels: config.ConstLabels,
		}),

		depth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "depth",
			Help:        "Current number of entries on the stack",
			ConstLabels: config.ConstLabels,
		}),
	}
}
