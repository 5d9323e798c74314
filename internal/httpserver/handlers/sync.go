package handlers

import (
	"net/http"

	"github.com/planloop/planloop/internal/backup"
	"github.com/planloop/planloop/internal/httpserver/deps"
)

type syncStatusResponse struct {
	backup.Status
	HasSafetyCopy bool `json:"hasSafetyCopy"`
}

func SyncStatus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, syncStatusResponse{
			Status:        d.Sync.Status(),
			HasSafetyCopy: d.Sync.HasSafetyCopy(),
		})
	}
}

// SyncBackup pushes unsaved edits to the mirror immediately.
func SyncBackup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Sync.ForceBackup(r.Context()); err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Sync.Status())
	}
}

// SyncPull replaces local state with the remote row. Unpushed local edits
// make this a 409 unless ?confirm=true.
func SyncPull(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		confirm := r.URL.Query().Get("confirm") == "true"
		if err := d.Sync.PullLatest(r.Context(), confirm); err != nil {
			writeActionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Store.Snapshot())
	}
}

// SyncRecover restores the state a confirmed pull displaced.
func SyncRecover(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Sync.RecoverSafetyCopy(); err != nil {
			writeActionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Store.Snapshot())
	}
}

type syncAutoRequest struct {
	Enabled bool `json:"enabled"`
}

func SyncAuto(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req syncAutoRequest
		if !decodeBody(w, r, &req) {
			return
		}
		d.Sync.SetAutoSync(req.Enabled)
		writeJSON(w, http.StatusOK, d.Sync.Status())
	}
}

type syncVisibilityRequest struct {
	Visible bool `json:"visible"`
}

// SyncVisibility mirrors the UI's tab visibility: hiding flushes pending
// edits and pauses pull polling.
func SyncVisibility(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req syncVisibilityRequest
		if !decodeBody(w, r, &req) {
			return
		}
		d.Sync.SetVisible(req.Visible)
		writeJSON(w, http.StatusOK, d.Sync.Status())
	}
}
