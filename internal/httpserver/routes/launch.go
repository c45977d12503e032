package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/topdoor/internal/httpserver/deps"
	"github.com/MrSnakeDoc/topdoor/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/topdoor/internal/httpserver/mw"
)

func init() { Register(registerLaunch) }

// Launch routes spawn processes, so they are rate limited per client IP.
func registerLaunch(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.LaunchBurst,
		RefillPerIPPerMin: d.LaunchPerMin,
		MaxEntries:        1024,
		SweepInterval:     time.Minute,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger), limit)

		r.Post("/api/groups/{id}/launch", handlers.LaunchGroup(d))
		r.Post("/api/open", handlers.Open(d))
	})
}
