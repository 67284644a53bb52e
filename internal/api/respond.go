package api

import (
	"encoding/json"
	"log"
	"net/http"

	apperrors "fleetrental/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError renders a service error. Clients see the kind and the safe
// message; the wrapped cause of internal failures only goes to the log.
func writeError(w http.ResponseWriter, err error) {
	kind := apperrors.KindOf(err)
	if kind == apperrors.KindInternal {
		log.Printf("internal error: %v", err)
	}
	writeJSON(w, apperrors.HTTPStatus(kind), map[string]interface{}{
		"error":     string(kind),
		"message":   apperrors.MessageOf(err),
		"retryable": apperrors.Retryable(kind),
	})
}
