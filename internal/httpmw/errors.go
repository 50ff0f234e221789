package httpmw

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the JSON shape of every error response the server emits.
// Stack is populated only outside production mode.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// WriteError renders an ErrorBody with the given status.
func WriteError(w http.ResponseWriter, status int, body ErrorBody) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// NotFound is the catch-all handler for unknown paths and methods.
func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusNotFound, ErrorBody{
		Error:   "Not Found",
		Message: "The requested resource was not found.",
	})
}
