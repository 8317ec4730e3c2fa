package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fintrack/fintrack/internal/metrics"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type key string

// UserIDKey is the context key under which Authenticate stores the caller's id.
const UserIDKey key = "user_id"

// Messages returned by Authenticate.
const (
	MsgNoToken      = "No token provided"
	MsgInvalidToken = "Invalid token"
)

// TokenVerifier resolves a bearer token to the identity it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Authenticate rejects requests without an Authorization header with 401 and
// requests whose token does not verify with 403. Otherwise the resolved user id
// is stored in the request context for GetUserID.
func Authenticate(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				metrics.IncAuthFailure("missing")
				writeError(w, MsgNoToken, http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(header)
			if !ok {
				metrics.IncAuthFailure("invalid")
				writeError(w, MsgInvalidToken, http.StatusForbidden)
				return
			}

			userID, err := v.Verify(token)
			if err != nil {
				metrics.IncAuthFailure("invalid")
				slog.Debug("token rejected",
					"request_id", chimw.GetReqID(r.Context()),
					"path", r.URL.Path,
					"error", err)
				writeError(w, MsgInvalidToken, http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the credentials of a "Bearer <token>" header. The scheme
// is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUserID returns the id stored by Authenticate.
func GetUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}

// WithUserID returns a copy of ctx carrying userID as Authenticate would. Used by tests.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}
