package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/repo"
	"github.com/fintrack/fintrack/internal/summary"
)

// SummaryHandler serves the dashboard report.
type SummaryHandler struct {
	Incomes  *repo.IncomeRepo
	Expenses *repo.ExpenseRepo
	// DefaultTimezone is used when the request has no tz parameter.
	DefaultTimezone string
	Now             func() time.Time
}

// GetSummary reports the caller's current month and the last n months.
// Query: tz (IANA zone, buckets months), months (1..24, default 6).
func (h *SummaryHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, middleware.MsgNoToken, http.StatusUnauthorized)
		return
	}

	fields := make(map[string]string)

	tz := r.URL.Query().Get("tz")
	if tz == "" {
		tz = h.DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		fields["tz"] = "unknown time zone"
	}

	months := summary.DefaultMonths
	if m := r.URL.Query().Get("months"); m != "" {
		val, err := strconv.Atoi(m)
		if err != nil || val < 1 || val > summary.MaxMonths {
			fields["months"] = "must be between 1 and " + strconv.Itoa(summary.MaxMonths)
		} else {
			months = val
		}
	}

	if len(fields) > 0 {
		JSONValidationError(w, MsgValidationFailed, fields, http.StatusBadRequest)
		return
	}

	incomes, err := h.Incomes.List(r.Context(), userID)
	if err != nil {
		serverError(w, r, "Failed to build summary", err)
		return
	}
	expenses, err := h.Expenses.List(r.Context(), userID)
	if err != nil {
		serverError(w, r, "Failed to build summary", err)
		return
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	report := summary.Build(incomes, expenses, now(), loc, months)
	JSON(w, map[string]any{"summary": report}, http.StatusOK)
}
