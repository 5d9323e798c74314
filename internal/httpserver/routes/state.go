package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/planloop/planloop/internal/httpserver/deps"
	"github.com/planloop/planloop/internal/httpserver/handlers"
)

func init() { Register(registerState) }

func registerState(r chi.Router, d deps.Deps) {
	r.Get("/state", handlers.State(d))
	r.Get("/workspaces", handlers.Workspaces(d))
	r.Post("/workspace", handlers.SetWorkspace(d))
	r.Post("/import", handlers.Import(d))
	r.Post("/clear", handlers.Clear(d))
}
