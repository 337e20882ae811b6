package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/backoffice/treasury/internal/adapter/http/dto"
	"github.com/backoffice/treasury/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps a domain error to its HTTP status. Unclassified
// errors come from storage and are not leaked to the client.
func writeDomainError(w http.ResponseWriter, err error, message string) {
	switch {
	case domain.IsValidation(err):
		writeError(w, http.StatusBadRequest, message, err.Error())
	case domain.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err.Error())
	case domain.IsConflict(err):
		writeError(w, http.StatusConflict, message, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, message, "internal error")
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
