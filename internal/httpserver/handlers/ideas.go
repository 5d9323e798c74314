package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/planloop/planloop/internal/domain"
	"github.com/planloop/planloop/internal/httpserver/deps"
	"github.com/planloop/planloop/internal/store"
)

type ideaResponse struct {
	domain.Idea
	CompletionPercent int `json:"completionPercent"`
}

func toIdeaResponse(idea domain.Idea) ideaResponse {
	return ideaResponse{Idea: idea, CompletionPercent: domain.CompletionPercent(idea)}
}

// ListIdeas returns the current workspace's ideas, optionally filtered by
// ?status=brainstorming|working|done.
func ListIdeas(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := domain.Status(r.URL.Query().Get("status"))
		if status != "" && !status.Valid() {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown status " + string(status)})
			return
		}
		ideas := d.Store.IdeasForCurrentWorkspace(status)
		out := make([]ideaResponse, 0, len(ideas))
		for _, idea := range ideas {
			out = append(out, toIdeaResponse(idea))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type createIdeaRequest struct {
	BinID string `json:"binId"`
	Text  string `json:"text"`
}

func CreateIdea(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createIdeaRequest
		if !decodeBody(w, r, &req) {
			return
		}
		idea, err := d.Store.AddIdea(req.BinID, req.Text)
		if err != nil {
			writeActionError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toIdeaResponse(idea))
	}
}

type updateIdeaRequest struct {
	Text        *string            `json:"text"`
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Script      *string            `json:"script"`
	Shotlist    *string            `json:"shotlist"`
	Thumbnail   *string            `json:"thumbnail"`
	Hashtags    *domain.HashtagSet `json:"hashtags"`
}

func UpdateIdea(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateIdeaRequest
		if !decodeBody(w, r, &req) {
			return
		}
		id := chi.URLParam(r, "id")
		err := d.Store.UpdateIdeaFields(id, store.IdeaUpdate{
			Text:        req.Text,
			Title:       req.Title,
			Description: req.Description,
			Script:      req.Script,
			Shotlist:    req.Shotlist,
			Thumbnail:   req.Thumbnail,
			Hashtags:    req.Hashtags,
		})
		if err != nil {
			writeActionError(w, err)
			return
		}
		idea, _ := d.Store.Snapshot().IdeaByID(id)
		writeJSON(w, http.StatusOK, toIdeaResponse(idea))
	}
}

type moveIdeaRequest struct {
	BinID string `json:"binId"`
}

func MoveIdea(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req moveIdeaRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := d.Store.MoveIdeaToBin(chi.URLParam(r, "id"), req.BinID); err != nil {
			writeActionError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type ideaStatusRequest struct {
	Status domain.Status `json:"status"`
}

func SetIdeaStatus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ideaStatusRequest
		if !decodeBody(w, r, &req) {
			return
		}
		id := chi.URLParam(r, "id")
		if err := d.Store.SetIdeaStatus(id, req.Status); err != nil {
			writeActionError(w, err)
			return
		}
		idea, _ := d.Store.Snapshot().IdeaByID(id)
		writeJSON(w, http.StatusOK, toIdeaResponse(idea))
	}
}

// PostIdea marks an idea posted: status becomes done and a done record
// snapshots the working fields.
func PostIdea(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Store.MarkIdeaPosted(id); err != nil {
			writeActionError(w, err)
			return
		}
		idea, _ := d.Store.Snapshot().IdeaByID(id)
		writeJSON(w, http.StatusOK, toIdeaResponse(idea))
	}
}

// UnpostIdea reverses a posting: the done record is dropped and the idea
// returns to working.
func UnpostIdea(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Store.UnpostIdea(id); err != nil {
			writeActionError(w, err)
			return
		}
		idea, _ := d.Store.Snapshot().IdeaByID(id)
		writeJSON(w, http.StatusOK, toIdeaResponse(idea))
	}
}

func PromoteIdea(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := d.Store.PromoteIdeaToPost(chi.URLParam(r, "id"))
		if err != nil {
			writeActionError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, post)
	}
}

// DeleteIdea removes an idea everywhere it is referenced.
func DeleteIdea(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Store.DeleteIdea(chi.URLParam(r, "id")); err != nil {
			writeActionError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
