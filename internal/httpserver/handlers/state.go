package handlers

import (
	"io"
	"net/http"

	"github.com/planloop/planloop/internal/httpserver/deps"
	"github.com/planloop/planloop/internal/logger"
)

// State returns the full planner snapshot. The UI hydrates from this once
// and then applies its own mutations optimistically.
func State(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Store.Snapshot())
	}
}

type workspaceRequest struct {
	ID string `json:"id"`
}

// SetWorkspace switches the active workspace.
func SetWorkspace(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req workspaceRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := d.Store.SetWorkspace(req.ID); err != nil {
			writeActionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Store.Snapshot())
	}
}

// Import replaces the whole planner state with the posted payload, run
// through the same tolerant migration the local record uses.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blob, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 16<<20))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		migrated := d.Local.MigrateJSON(blob)
		d.Store.ImportState(migrated)
		d.Logger.Info("state imported via endpoint",
			logger.String("remote_ip", r.RemoteAddr),
			logger.Int("bytes", len(blob)))
		writeJSON(w, http.StatusOK, d.Store.Snapshot())
	}
}

// Clear resets the planner to its seeded defaults.
func Clear(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Store.ClearAll()
		d.Logger.Info("state cleared via endpoint",
			logger.String("remote_ip", r.RemoteAddr))
		writeJSON(w, http.StatusOK, d.Store.Snapshot())
	}
}

// Workspaces lists all workspaces.
func Workspaces(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Store.Workspaces())
	}
}
