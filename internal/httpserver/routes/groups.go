package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/topdoor/internal/httpserver/deps"
	"github.com/MrSnakeDoc/topdoor/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/topdoor/internal/httpserver/mw"
)

func init() { Register(registerGroups) }

func registerGroups(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))

		r.Get("/api/groups", handlers.ListGroups(d))
		r.Post("/api/groups", handlers.CreateGroup(d))
		r.Get("/api/groups/{id}", handlers.GetGroup(d))
		r.Put("/api/groups/{id}", handlers.UpdateGroup(d))
		r.Delete("/api/groups/{id}", handlers.DeleteGroup(d))
		r.Post("/api/groups/{id}/move", handlers.MoveGroup(d))
	})
}
