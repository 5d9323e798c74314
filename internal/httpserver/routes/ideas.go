package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/planloop/planloop/internal/httpserver/deps"
	"github.com/planloop/planloop/internal/httpserver/handlers"
)

func init() { Register(registerIdeas) }

func registerIdeas(r chi.Router, d deps.Deps) {
	r.Route("/ideas", func(r chi.Router) {
		r.Get("/", handlers.ListIdeas(d))
		r.Post("/", handlers.CreateIdea(d))
		r.Patch("/{id}", handlers.UpdateIdea(d))
		r.Post("/{id}/move", handlers.MoveIdea(d))
		r.Post("/{id}/status", handlers.SetIdeaStatus(d))
		r.Post("/{id}/post", handlers.PostIdea(d))
		r.Post("/{id}/unpost", handlers.UnpostIdea(d))
		r.Post("/{id}/promote", handlers.PromoteIdea(d))
		r.Delete("/{id}", handlers.DeleteIdea(d))
	})
}
