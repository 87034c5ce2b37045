package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carbonjar/lms/internal/core"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
	Status int    `json:"status,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// WriteFieldError reports a rejected input field.
func WriteFieldError(w http.ResponseWriter, field, reason, message string) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: message, Field: field, Reason: reason})
}

// WriteServiceError maps a service-layer error to a status code. Unknown
// errors become 500 with a generic message.
func WriteServiceError(w http.ResponseWriter, err error) {
	var ve *core.ValidationError
	switch {
	case errors.As(err, &ve):
		WriteFieldError(w, ve.Field, ve.Reason, ve.Error())
	case errors.Is(err, core.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not found")
	case errors.Is(err, core.ErrConflict):
		WriteError(w, http.StatusConflict, "certificate changed concurrently, retry")
	default:
		WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

// PaginatedResponse wraps a list with pagination metadata.
type PaginatedResponse struct {
	Items      any    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// WritePaginated writes a paginated JSON response.
func WritePaginated(w http.ResponseWriter, status int, items any, nextCursor string, hasMore bool) {
	WriteJSON(w, status, PaginatedResponse{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	})
}
