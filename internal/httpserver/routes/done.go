package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/planloop/planloop/internal/httpserver/deps"
	"github.com/planloop/planloop/internal/httpserver/handlers"
)

func init() { Register(registerDone) }

func registerDone(r chi.Router, d deps.Deps) {
	r.Get("/done", handlers.ListDone(d))
}
