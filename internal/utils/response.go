package utils

import (
	"encoding/json"
	"net/http"
)

// Payload is the response envelope shared by every JSON endpoint.
// Only the payload keys an endpoint sets are emitted.
type Payload struct {
	Error       bool   `json:"error"`
	Message     string `json:"message"`
	User        any    `json:"user,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
	Note        any    `json:"note,omitempty"`
	Notes       any    `json:"notes,omitempty"`
}

// JSONResponse sends the envelope with the given status.
func JSONResponse(w http.ResponseWriter, status int, payload Payload) {
	WriteJSON(w, status, payload)
}

// ErrorResponse sends {"error": true, "message": msg}.
func ErrorResponse(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, Payload{Error: true, Message: msg})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
