package handlers

import (
	"net/http"

	"github.com/planloop/planloop/internal/httpserver/deps"
)

// ListDone returns the current workspace's done records, newest first,
// joined with their ideas when those still exist.
func ListDone(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Store.DoneList())
	}
}
