package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/planloop/planloop/internal/httpserver/deps"
	"github.com/planloop/planloop/internal/httpserver/handlers"
)

func init() { Register(registerGrid) }

func registerGrid(r chi.Router, d deps.Deps) {
	r.Route("/grid", func(r chi.Router) {
		r.Get("/", handlers.GetGrid(d))
		r.Post("/assign", handlers.GridAssign(d))
		r.Post("/move", handlers.GridMove(d))
		r.Post("/clear", handlers.GridClear(d))
		r.Post("/rows", handlers.GridAddRows(d))
		r.Post("/reset", handlers.GridReset(d))
	})
}
