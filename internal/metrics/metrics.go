// Package metrics exposes prometheus collectors for the HTTP API and content operations.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "posta_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "posta_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "posta_http_active_requests",
			Help: "Current number of active HTTP requests",
		},
	)

	// ContentOperationsTotal counts writes per content kind (projects, scripts, notes,
	// inspirations, tags, files) and operation (create, update, delete, ...).
	ContentOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "posta_content_operations_total",
			Help: "Total number of content write operations",
		},
		[]string{"kind", "operation"},
	)

	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "posta_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"status", "type"},
	)

	UsageCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "posta_tag_usage_cache_lookups_total",
			Help: "Tag usage cache lookups by result",
		},
		[]string{"result"},
	)
)

// Middleware records request count, latency and in-flight requests. Routes are
// labelled by their template so ids do not explode cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ActiveRequests.Inc()
		defer ActiveRequests.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry in the text exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// TrackContentOperation increments the content operation counter.
func TrackContentOperation(kind, operation string) {
	ContentOperationsTotal.WithLabelValues(kind, operation).Inc()
}

// TrackAuthAttempt records authentication attempts.
func TrackAuthAttempt(status, authType string) {
	AuthAttempts.WithLabelValues(status, authType).Inc()
}

// TrackUsageCache records a cache hit or miss.
func TrackUsageCache(hit bool) {
	if hit {
		UsageCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	UsageCacheLookups.WithLabelValues("miss").Inc()
}
