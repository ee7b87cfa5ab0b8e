package observability

import (
	"net/http"
	"time"

	pkgerrors "docspace/pkg/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application. Each collector
// owns its registry so tests can build as many as they like.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Command and query bus metrics
	Dispatches       *prometheus.CounterVec
	DispatchDuration *prometheus.HistogramVec

	// Graph metrics
	GraphBuilds       prometheus.Counter
	GraphLinksDropped prometheus.Counter
	GraphBuildNodes   prometheus.Histogram

	// Business metrics
	Mutations *prometheus.CounterVec

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// Dependencies
	TagFallbacks  prometheus.Counter
	RateLimited   prometheus.Counter
	ActivityFails prometheus.Counter
}

// NewCollector creates a new metrics collector with the given namespace
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bus_dispatches_total",
				Help:      "Commands and queries dispatched, by outcome",
			},
			[]string{"bus", "message", "outcome"},
		),
		DispatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "bus_dispatch_duration_seconds",
				Help:      "Time spent in command and query handlers",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"bus", "message"},
		),
		GraphBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_builds_total",
			Help:      "Graph layouts computed (cache misses included, hits excluded)",
		}),
		GraphLinksDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_links_dropped_total",
			Help:      "Links omitted from a graph because an endpoint file was missing",
		}),
		GraphBuildNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_build_nodes",
			Help:      "Number of nodes per computed graph",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 7),
		}),
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_total",
				Help:      "Successful write operations by resource and action",
			},
			[]string{"resource", "action"},
		),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses",
		}),
		TagFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tag_service_fallbacks_total",
			Help:      "Tag requests served by the local keyword extractor",
		}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the rate limiter",
		}),
		ActivityFails: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_log_failures_total",
			Help:      "Activity log entries that could not be written",
		}),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Dispatches,
		c.DispatchDuration,
		c.GraphBuilds,
		c.GraphLinksDropped,
		c.GraphBuildNodes,
		c.Mutations,
		c.CacheHits,
		c.CacheMisses,
		c.TagFallbacks,
		c.RateLimited,
		c.ActivityFails,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one finished request.
func (c *Collector) ObserveHTTP(method, route, status string, d time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordGraphBuild records one computed layout.
func (c *Collector) RecordGraphBuild(nodes, dropped int) {
	c.GraphBuilds.Inc()
	c.GraphBuildNodes.Observe(float64(nodes))
	if dropped > 0 {
		c.GraphLinksDropped.Add(float64(dropped))
	}
}

// RecordMutation counts a successful write.
func (c *Collector) RecordMutation(resource, action string) {
	c.Mutations.WithLabelValues(resource, action).Inc()
}

// ObserveDispatch records one handled command or query. The outcome label is
// "ok" or the AppError type of err.
func (c *Collector) ObserveDispatch(bus, message string, err error, d time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if appErr := pkgerrors.GetAppError(err); appErr != nil {
			outcome = string(appErr.Type)
		}
	}
	c.Dispatches.WithLabelValues(bus, message, outcome).Inc()
	c.DispatchDuration.WithLabelValues(bus, message).Observe(d.Seconds())
}
