package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics live on a registry owned by one Server.
type metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	provenanceOps   *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ppimap_http_requests_total",
				Help: "Number of HTTP requests by route and status.",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ppimap_http_request_duration_seconds",
				Help:    "Time taken to serve HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		provenanceOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ppimap_provenance_operations_total",
				Help: "Provenance store operations by kind and result.",
			},
			[]string{"operation", "result"},
		),
	}
	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.provenanceOps,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *metrics) handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// observe records one request. Unmatched routes share a single label.
func (m *metrics) observe(c *gin.Context, elapsed time.Duration) {
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	m.requestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	m.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *metrics) provenance(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.provenanceOps.WithLabelValues(operation, result).Inc()
}
