package handlers

import (
	"net/http"

	"github.com/planloop/planloop/internal/httpserver/deps"
)

func GetGrid(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Store.ActiveGrid())
	}
}

type gridAssignRequest struct {
	CellID string `json:"cellId"`
	IdeaID string `json:"ideaId"`
}

// GridAssign places an idea into a cell; an empty ideaId clears it.
func GridAssign(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gridAssignRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := d.Store.GridAssign(req.CellID, req.IdeaID); err != nil {
			writeActionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Store.ActiveGrid())
	}
}

type gridMoveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// GridMove swaps two cells' contents.
func GridMove(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gridMoveRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := d.Store.GridMoveWithin(req.From, req.To); err != nil {
			writeActionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Store.ActiveGrid())
	}
}

type gridClearRequest struct {
	CellID string `json:"cellId"`
}

func GridClear(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gridClearRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := d.Store.GridClear(req.CellID); err != nil {
			writeActionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Store.ActiveGrid())
	}
}

type gridRowsRequest struct {
	Count int `json:"count"`
}

func GridAddRows(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gridRowsRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := d.Store.AddGridRows(req.Count); err != nil {
			writeActionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Store.ActiveGrid())
	}
}

// GridReset shrinks the current workspace's grid back to a single row.
func GridReset(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Store.GridResetTo1x3(); err != nil {
			writeActionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Store.ActiveGrid())
	}
}
