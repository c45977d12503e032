package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/topdoor/internal/domain"
	"github.com/MrSnakeDoc/topdoor/internal/httpserver/deps"
)

type configResponse struct {
	domain.Configuration
	Path       string `json:"path"`
	Tier       string `json:"tier"`
	LastReload string `json:"lastReload,omitempty"`
}

func newConfigResponse(d deps.Deps) configResponse {
	resp := configResponse{
		Configuration: d.MemoryIndex.Snapshot(),
		Path:          d.Manager.Store().Path(),
		Tier:          d.MemoryIndex.Tier(),
	}
	if t := d.MemoryIndex.GetLastReload(); !t.IsZero() {
		resp.LastReload = t.Format(time.RFC3339)
	}
	return resp
}

// GetConfig returns the full configuration as stored plus load metadata.
func GetConfig(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, newConfigResponse(d))
	}
}

// Reload re-reads config.json through the recovery chain.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Manager.Reload(r.Context())
		writeJSON(w, http.StatusOK, newConfigResponse(d))
	}
}

// Reset replaces the configuration with the default one.
func Reset(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Manager.Reset(r.Context()); err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, newConfigResponse(d))
	}
}
