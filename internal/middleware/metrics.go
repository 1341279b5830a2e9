package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Count of HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	entriesPostedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_journal_entries_posted_total",
			Help: "Count of journal entries posted.",
		},
	)
	entriesReversedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_journal_entries_reversed_total",
			Help: "Count of journal entries reversed.",
		},
	)
	statementLinesMatchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_statement_lines_matched_total",
			Help: "Count of bank statement lines matched, by match method.",
		},
		[]string{"method"},
	)
)

// CountEntryPosted records a successfully posted journal entry.
func CountEntryPosted() { entriesPostedTotal.Inc() }

// CountEntryReversed records a successfully reversed journal entry.
func CountEntryReversed() { entriesReversedTotal.Inc() }

// CountLineMatched records a matched bank statement line. method is the
// line's match method (AUTO or MANUAL).
func CountLineMatched(method string) { statementLinesMatchedTotal.WithLabelValues(method).Inc() }

// Metrics creates a Gin middleware that records request counts and latency.
// Routes are labelled by their registered pattern so path parameters do not
// explode the label cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
