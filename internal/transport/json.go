package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rpggio/scriptdesk/internal/repository"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// WriteJSON writes payload with status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError writes an error body.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorBody{Message: message})
}

// DecodeJSON decodes a request body into v.
func DecodeJSON(body io.Reader, v any) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	return nil
}

// writeRepoError maps repository errors to status codes.
func writeRepoError(w http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		WriteError(w, http.StatusNotFound, notFound)
	case errors.Is(err, repository.ErrConflict):
		WriteJSON(w, http.StatusBadRequest, ErrorBody{Field: "name", Message: "Name is already taken"})
	case errors.Is(err, repository.ErrForeignKeyViolation):
		WriteError(w, http.StatusBadRequest, "referenced entity does not exist")
	case errors.Is(err, repository.ErrNotEmpty):
		WriteError(w, http.StatusConflict, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
