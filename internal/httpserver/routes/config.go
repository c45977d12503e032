package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/topdoor/internal/httpserver/deps"
	"github.com/MrSnakeDoc/topdoor/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/topdoor/internal/httpserver/mw"
)

func init() { Register(registerConfig) }

func registerConfig(r chi.Router, d deps.Deps) {
	guard := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))

	guard.Get("/api/config", handlers.GetConfig(d))
	guard.Post("/api/reload", handlers.Reload(d))
	guard.Post("/api/reset", handlers.Reset(d))
	guard.Post("/api/sync", handlers.Sync(d))
}
