package handlers

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes a standardised JSON error response. The request ID is
// omitted from the body when empty; it always travels in the X-Request-ID
// header regardless.
func WriteError(w http.ResponseWriter, status int, msg, requestID string) {
	body := map[string]string{
		"error": msg,
	}
	if requestID != "" {
		body["request_id"] = requestID
	}

	WriteJSON(w, status, body)
}
