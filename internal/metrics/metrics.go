package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xraph/keel/internal/config"
)

// Metrics records container activity.
type Metrics interface {
	ComponentCreated(scope string, elapsed time.Duration)
	CreationFailed()
	CacheHit()
	PostProcessorFailed(hook string)
	DestroyFailed()
	SetCachedSingletons(n int)

	// Handler exposes the collected metrics in the Prometheus text format.
	Handler() http.Handler
}

// metrics implements the Metrics interface using Prometheus
type metrics struct {
	registry *prometheus.Registry

	componentsCreated     *prometheus.CounterVec
	creationDuration      *prometheus.HistogramVec
	creationFailures      prometheus.Counter
	cacheHits             prometheus.Counter
	postProcessorFailures *prometheus.CounterVec
	destroyFailures       prometheus.Counter
	singletonsCached      prometheus.Gauge
}

// New creates the collectors on a private registry. A disabled
// configuration yields the noop implementation.
func New(cfg config.MetricsConfig) Metrics {
	if !cfg.Enabled {
		return NewNoop()
	}

	return NewWithRegistry(cfg.Namespace, prometheus.NewRegistry())
}

// NewWithRegistry registers the collectors on the given registry.
func NewWithRegistry(namespace string, registry *prometheus.Registry) Metrics {
	m := &metrics{registry: registry}

	m.componentsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "components_created_total",
			Help:      "Total number of component instances constructed",
		},
		[]string{"scope"},
	)

	m.creationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "creation_duration_seconds",
			Help:      "Component construction duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"scope"},
	)

	m.creationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "creation_failures_total",
		Help:      "Total number of failed component constructions",
	})

	m.cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_hits_total",
		Help:      "Total number of singleton lookups served from the instance cache",
	})

	m.postProcessorFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "postprocessor_failures_total",
			Help:      "Total number of post-processor hook failures treated as pass-through",
		},
		[]string{"hook"},
	)

	m.destroyFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "destroy_failures_total",
		Help:      "Total number of destroy hooks that failed during shutdown",
	})

	m.singletonsCached = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "singletons_cached",
		Help:      "Number of fully initialized singletons held by the container",
	})

	registry.MustRegister(
		m.componentsCreated,
		m.creationDuration,
		m.creationFailures,
		m.cacheHits,
		m.postProcessorFailures,
		m.destroyFailures,
		m.singletonsCached,
	)

	return m
}

func (m *metrics) ComponentCreated(scope string, elapsed time.Duration) {
	m.componentsCreated.WithLabelValues(scope).Inc()
	m.creationDuration.WithLabelValues(scope).Observe(elapsed.Seconds())
}

func (m *metrics) CreationFailed() {
	m.creationFailures.Inc()
}

func (m *metrics) CacheHit() {
	m.cacheHits.Inc()
}

func (m *metrics) PostProcessorFailed(hook string) {
	m.postProcessorFailures.WithLabelValues(hook).Inc()
}

func (m *metrics) DestroyFailed() {
	m.destroyFailures.Inc()
}

func (m *metrics) SetCachedSingletons(n int) {
	m.singletonsCached.Set(float64(n))
}

func (m *metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
