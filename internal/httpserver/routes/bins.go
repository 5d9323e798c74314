package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/planloop/planloop/internal/httpserver/deps"
	"github.com/planloop/planloop/internal/httpserver/handlers"
)

func init() { Register(registerBins) }

func registerBins(r chi.Router, d deps.Deps) {
	r.Route("/bins", func(r chi.Router) {
		r.Get("/", handlers.ListBins(d))
		r.Post("/", handlers.CreateBin(d))
		r.Patch("/{id}", handlers.UpdateBin(d))
		r.Patch("/{id}/hashtags", handlers.UpdateBinHashtags(d))
		r.Delete("/{id}", handlers.DeleteBin(d))
	})
}
