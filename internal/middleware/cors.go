package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// DefaultCORSAllowedMethods is the default set of methods allowed for CORS.
var DefaultCORSAllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}

// DefaultCORSAllowedHeaders is the default set of request headers allowed for CORS.
var DefaultCORSAllowedHeaders = []string{"Accept", "Authorization", "Content-Type"}

// CORS allows the browser client at origins to call the API and answers preflight
// requests. When origins is empty, the middleware is a no-op.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: DefaultCORSAllowedMethods,
		AllowedHeaders: DefaultCORSAllowedHeaders,
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         86400,
	})
}
