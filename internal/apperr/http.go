package apperr

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

// WriteJSON encodes data with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// Write responds with {"error": message} and the error's status. Errors other
// than *Error are answered with the generic internal error.
func Write(w http.ResponseWriter, err error) error {
	e := From(err)
	return WriteJSON(w, e.StatusCode(), errorResponse{Error: e.Message()})
}
