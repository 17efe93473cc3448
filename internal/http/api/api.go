// Package api holds the response helpers shared by every handler, in
// particular the error body contract: failures carry a message field
// the client surfaces verbatim.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/oscarfh/bizdesk/internal/document"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes the standard error payload.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, document.ErrorPayload{Message: message})
}
