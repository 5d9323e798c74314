package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/planloop/planloop/internal/backup"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeActionError maps domain failures onto status codes. Sync conflicts
// get 409 so the UI knows to ask for confirmation; everything else from the
// action catalog is a caller mistake.
func writeActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, backup.ErrDirtyNeedsConfirm):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, backup.ErrNoSafetyCopy):
		writeError(w, http.StatusNotFound, err)
	default:
		writeError(w, http.StatusBadRequest, err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}
