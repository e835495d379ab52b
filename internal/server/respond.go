package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/printhub-store/backend/internal/order"
	"github.com/printhub-store/backend/internal/repository"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondDomainError maps the core error taxonomy onto HTTP statuses.
// Core errors carry user-facing text and are surfaced verbatim.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrObjectNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, order.ErrInvalidTransition):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, order.ErrPreconditionFailed):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, order.ErrValidationFailed):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
