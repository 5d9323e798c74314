package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/planloop/planloop/internal/domain"
	"github.com/planloop/planloop/internal/httpserver/deps"
	"github.com/planloop/planloop/internal/store"
)

// ListBins returns the current workspace's bins in sort order.
func ListBins(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Store.BinsForCurrentWorkspace())
	}
}

type createBinRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func CreateBin(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBinRequest
		if !decodeBody(w, r, &req) {
			return
		}
		bin, err := d.Store.AddBin(req.Name, req.Color)
		if err != nil {
			writeActionError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, bin)
	}
}

type updateBinRequest struct {
	Name      *string `json:"name"`
	Color     *string `json:"color"`
	SortOrder *int    `json:"sortOrder"`
}

func UpdateBin(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateBinRequest
		if !decodeBody(w, r, &req) {
			return
		}
		id := chi.URLParam(r, "id")
		err := d.Store.UpdateBin(id, store.BinUpdate{
			Name:      req.Name,
			Color:     req.Color,
			SortOrder: req.SortOrder,
		})
		if err != nil {
			writeActionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Store.BinsForCurrentWorkspace())
	}
}

func UpdateBinHashtags(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.HashtagSet
		if !decodeBody(w, r, &req) {
			return
		}
		id := chi.URLParam(r, "id")
		if err := d.Store.UpdateBinHashtagDefaults(id, req); err != nil {
			writeActionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Store.BinsForCurrentWorkspace())
	}
}

// DeleteBin removes a bin; its ideas become unbinned, never deleted.
func DeleteBin(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Store.DeleteBin(id); err != nil {
			writeActionError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
