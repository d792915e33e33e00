// Package httputil provides small helpers for writing HTTP responses.
package httputil

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON body written for every failed request.
// The field names follow RFC 6749 error responses.
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an RFC 6749 style error body with the given status code.
func WriteError(w http.ResponseWriter, status int, code, description string) {
	WriteJSON(w, status, ErrorResponse{Error: code, Description: description})
}

// WriteMethodNotAllowed writes a 405 response advertising the allowed method.
func WriteMethodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed, use "+allow)
}
