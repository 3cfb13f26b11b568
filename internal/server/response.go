package server

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/MonkeyKingDev/git-peek/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps classified errors to HTTP statuses and a JSON error
// body. Unclassified errors surface as 500.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperrors.HTTPStatus(err), map[string]string{"error": err.Error()})
}
