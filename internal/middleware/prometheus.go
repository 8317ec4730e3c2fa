package middleware

import (
	"net/http"
	"time"

	"github.com/fintrack/fintrack/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// Prometheus records request duration and count for each request.
// Wrap the handler chain with this after recovery and request ID so metrics reflect the actual request.
func Prometheus(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		statusW := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(statusW, r)
		if r.URL.Path == "/metrics" {
			return
		}
		duration := time.Since(start).Seconds()
		metrics.RecordRequest(r.Method, routeLabel(r), statusW.status, duration)
	})
}

// routeLabel prefers the matched chi pattern (/api/auth/income/{id}) and falls
// back to the raw path, which RecordRequest normalizes.
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	if r.URL.Path == "" {
		return "/"
	}
	return r.URL.Path
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
