package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError writes the same {success, code, message} envelope the
// handlers use, so rejected requests look identical to failed operations.
func writeJSONError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"code":    code,
		"message": msg,
	})
}
