package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/topdoor/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Tier  string `json:"tier,omitempty"`
}

// Readyz reports ready once a configuration has been published.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ready := !d.MemoryIndex.GetLastReload().IsZero()
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, readyzResponse{
			Ready: ready,
			Tier:  d.MemoryIndex.Tier(),
		})
	}
}
