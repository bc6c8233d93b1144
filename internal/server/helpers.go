package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bobmcallan/saveplan/internal/services/form"
)

// ErrorResponse is the standard error format for REST API responses.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// WriteFieldErrors writes a 400 response listing per-field problems.
func WriteFieldErrors(w http.ResponseWriter, fe form.FieldErrors) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Please check the highlighted fields", Fields: fe})
}

// writeServiceError writes validation failures as 400 and anything else as 502
// with the given message.
func writeServiceError(w http.ResponseWriter, err error, message string) {
	var fe form.FieldErrors
	if errors.As(err, &fe) {
		WriteFieldErrors(w, fe)
		return
	}
	WriteError(w, http.StatusBadGateway, message)
}

// DecodeJSON reads and decodes JSON from the request body into v.
// Returns false and writes a 400 error if decoding fails.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil {
		WriteError(w, http.StatusBadRequest, "Request body is required")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}
