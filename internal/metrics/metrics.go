package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// AuthFailuresTotal counts rejected protected requests by reason (missing, invalid).
	AuthFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Protected requests rejected by the auth middleware",
		},
		[]string{"reason"},
	)

	// LoginsTotal counts login attempts by outcome (success, failure).
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)

	// RecordOpsTotal counts successful record mutations by resource (income, expense) and action.
	RecordOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "record_operations_total",
			Help: "Successful income/expense mutations",
		},
		[]string{"resource", "action"},
	)

	// AuditPurgedTotal counts audit log entries removed by the retention job.
	AuditPurgedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_entries_purged_total",
			Help: "Audit log entries removed by the retention job",
		},
	)
)

var (
	idPathSegment = regexp.MustCompile(`/([0-9]+|[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})(/|$)`)
	initOnce      sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, AuthFailuresTotal, LoginsTotal, RecordOpsTotal, AuditPurgedTotal)
	})
}

// NormalizePath reduces cardinality by replacing numeric and UUID path segments with {id}.
// E.g. /api/auth/income/6f1c...-... -> /api/auth/income/{id}.
func NormalizePath(path string) string {
	return idPathSegment.ReplaceAllString(path, "/{id}$2")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncAuthFailure increments the auth failure counter for reason (missing, invalid).
func IncAuthFailure(reason string) {
	AuthFailuresTotal.WithLabelValues(reason).Inc()
}

// IncLogin increments the login counter for outcome (success, failure).
func IncLogin(outcome string) {
	LoginsTotal.WithLabelValues(outcome).Inc()
}

// IncRecordOp increments the record mutation counter.
func IncRecordOp(resource, action string) {
	RecordOpsTotal.WithLabelValues(resource, action).Inc()
}

// AddAuditPurged adds n to the purged audit entries counter.
func AddAuditPurged(n int64) {
	AuditPurgedTotal.Add(float64(n))
}
