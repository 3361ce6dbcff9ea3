package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "paydesk"

// Collector owns every application metric. Each Collector registers on its
// own registry so tests can build as many as they like.
type Collector struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	runsSubmitted   prometheus.Counter
	recordsCreated  prometheus.Counter
	statusUpdates   *prometheus.CounterVec
	dispatches      *prometheus.CounterVec
	jobRuns         *prometheus.CounterVec
}

func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	return &Collector{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		runsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payroll",
			Name:      "runs_submitted_total",
			Help:      "Pay runs persisted.",
		}),
		recordsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payroll",
			Name:      "records_created_total",
			Help:      "Pay history records created.",
		}),
		statusUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payroll",
			Name:      "status_updates_total",
			Help:      "Pay history records moved to a status.",
		}, []string{"status"}),
		dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "attempts_total",
			Help:      "Schedule dispatch attempts by outcome.",
		}, []string{"outcome"}),
		jobRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "runs_total",
			Help:      "Background job runs by type and final status.",
		}, []string{"job", "status"}),
	}
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Record is called once per HTTP request. An empty route means the router
// matched nothing, which is folded into a single label value.
func (c *Collector) Record(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) PayRunSubmitted(records int) {
	c.runsSubmitted.Inc()
	c.recordsCreated.Add(float64(records))
}

func (c *Collector) StatusUpdated(status string, count int64) {
	c.statusUpdates.WithLabelValues(status).Add(float64(count))
}

// Dispatched records one scheduling attempt; outcome is "ok",
// "upstream_error", "transport_error" or "not_configured".
func (c *Collector) Dispatched(outcome string) {
	c.dispatches.WithLabelValues(outcome).Inc()
}

func (c *Collector) JobFinished(job, status string) {
	c.jobRuns.WithLabelValues(job, status).Inc()
}
