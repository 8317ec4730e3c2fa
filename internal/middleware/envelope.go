package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError writes {"success":false,"message":message} with status.
func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}
