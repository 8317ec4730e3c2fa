package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fintrack/fintrack/internal/metrics"
	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/repo"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// AuditHandler serves the caller's activity log.
type AuditHandler struct {
	Repo *repo.AuditRepo
}

// ListActivity returns the caller's audit log entries, newest first. Query: limit (default 50, max 200), offset (default 0).
func (h *AuditHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, middleware.MsgNoToken, http.StatusUnauthorized)
		return
	}

	limit := 50
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= 200 {
			limit = val
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}

	entries, err := h.Repo.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		serverError(w, r, "Failed to fetch activity", err)
		return
	}

	JSON(w, map[string]any{"activity": entries}, http.StatusOK)
}

// recordMutation counts a successful mutation and appends it to the audit log.
// An audit failure is logged and never fails the request.
func recordMutation(ctx context.Context, audit *repo.AuditRepo, userID, action, resourceType, resourceID, details string) {
	metrics.IncRecordOp(resourceType, action)
	if audit == nil {
		return
	}
	if err := audit.Log(ctx, userID, action, resourceType, resourceID, details); err != nil {
		slog.Warn("audit log write failed",
			"request_id", chimw.GetReqID(ctx),
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
			"error", err)
	}
}
