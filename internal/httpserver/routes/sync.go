package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/planloop/planloop/internal/httpserver/deps"
	"github.com/planloop/planloop/internal/httpserver/handlers"
)

func init() { Register(registerSync) }

func registerSync(r chi.Router, d deps.Deps) {
	r.Route("/sync", func(r chi.Router) {
		r.Get("/status", handlers.SyncStatus(d))
		r.Post("/backup", handlers.SyncBackup(d))
		r.Post("/pull", handlers.SyncPull(d))
		r.Post("/recover", handlers.SyncRecover(d))
		r.Post("/auto", handlers.SyncAuto(d))
		r.Post("/visibility", handlers.SyncVisibility(d))
	})
}
