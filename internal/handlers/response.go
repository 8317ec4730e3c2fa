package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "Server error"

// JSON writes payload inside the success envelope: {"success": true, ...payload}.
func JSON(w http.ResponseWriter, payload map[string]any, status int) {
	out := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		out[k] = v
	}
	out["success"] = true
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(out)
}

// JSONError sends {"success": false, "message": message}.
func JSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}

// JSONValidationError sends the failure envelope with optional "fields" for field-level details.
// status is typically http.StatusBadRequest (400).
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	out := map[string]any{"success": false, "message": message}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	json.NewEncoder(w).Encode(out)
}

// serverError logs err with the request id and answers 500 with message.
func serverError(w http.ResponseWriter, r *http.Request, message string, err error) {
	slog.Error(message,
		"request_id", chimw.GetReqID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err)
	JSONError(w, message, http.StatusInternalServerError)
}
