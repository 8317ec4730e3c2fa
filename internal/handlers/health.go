package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	DB *sql.DB
}

// Health reports that the process is up. It does not touch the database.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, map[string]any{"status": "ok"}, http.StatusOK)
}

// Ready pings the database.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		JSONError(w, "Database unavailable", http.StatusServiceUnavailable)
		return
	}
	JSON(w, map[string]any{"status": "ready"}, http.StatusOK)
}
