// Package metrics provides Prometheus metrics for the inspector server.
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
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spaceinspect_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spaceinspect_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Explorer metrics
	listingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spaceinspect_listings_total",
			Help: "Directory listings by outcome",
		},
		[]string{"outcome"},
	)

	fileReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spaceinspect_file_reads_total",
			Help: "File previews by outcome",
		},
		[]string{"outcome"},
	)

	// Snapshot metrics
	snapshotsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spaceinspect_snapshots_total",
			Help: "Snapshots taken by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	sessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spaceinspect_sessions_active",
			Help: "Open websocket sessions",
		},
	)
)

// Outcome labels.
const (
	OutcomeOK        = "ok"
	OutcomeError     = "error"
	OutcomeBinary    = "binary"
	OutcomeDirectory = "directory"
)

// Middleware records request counts and latency. The route pattern is used
// as the path label to keep cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordListing records a directory listing outcome.
func RecordListing(ok bool) {
	if ok {
		listingsTotal.WithLabelValues(OutcomeOK).Inc()
		return
	}
	listingsTotal.WithLabelValues(OutcomeError).Inc()
}

// RecordFileRead records a file preview outcome.
func RecordFileRead(outcome string) {
	fileReadsTotal.WithLabelValues(outcome).Inc()
}

// RecordSnapshot records a snapshot by kind.
func RecordSnapshot(kind string, ok bool) {
	outcome := OutcomeOK
	if !ok {
		outcome = OutcomeError
	}
	snapshotsTotal.WithLabelValues(kind, outcome).Inc()
}

// SessionOpened increments the active session gauge.
func SessionOpened() {
	sessionsActive.Inc()
}

// SessionClosed decrements the active session gauge.
func SessionClosed() {
	sessionsActive.Dec()
}
