package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"tradevault/internal/domain"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// respondError maps the store's error taxonomy onto HTTP statuses. Conflicts
// carry a retryable flag so callers know to re-read and retry.
func respondError(w http.ResponseWriter, err error) {
	var (
		notFound   *domain.NotFoundError
		conflict   *domain.ConflictError
		validation *domain.ValidationError
	)

	switch {
	case errors.As(err, &notFound):
		respondJSON(w, http.StatusNotFound, map[string]string{"error": notFound.Error()})
	case errors.As(err, &conflict):
		respondJSON(w, http.StatusConflict, map[string]interface{}{
			"error":     conflict.Error(),
			"retryable": true,
		})
	case errors.As(err, &validation):
		respondJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": validation.Error()})
	default:
		log.Printf("Internal error: %v", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// parseAt reads the ?t= query parameter of point-in-time reads.
func parseAt(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("t")
	if raw == "" {
		return time.Time{}, errors.New("query parameter t is required (RFC3339)")
	}
	return time.Parse(time.RFC3339, raw)
}
