package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// ErrorResponse is the envelope every failed request is answered with.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// WriteError writes an ErrorResponse. An empty message falls back to the
// status text, e.g. "Bad Request".
func WriteError(w http.ResponseWriter, code int, message string) {
	if message == "" {
		message = statusMessage(code)
	}
	WriteJSON(w, code, ErrorResponse{Success: false, Error: code, Message: message})
}

func statusMessage(code int) string {
	switch code {
	case http.StatusNotFound:
		return "resource not found"
	case http.StatusUnprocessableEntity:
		return "Unprocessable"
	}
	return http.StatusText(code)
}
