package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/topdoor/internal/httpserver/deps"
)

type componentStatus struct {
	OK           bool   `json:"ok"`
	GroupsLoaded *int   `json:"groups_loaded,omitempty"`
	LastReload   string `json:"last_reload,omitempty"`
	Tier         string `json:"tier,omitempty"`
	Path         string `json:"path,omitempty"`
	URL          string `json:"url,omitempty"`
	Mode         string `json:"mode,omitempty"`
	Impact       string `json:"impact,omitempty"`
	Error        string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupsCount := d.MemoryIndex.Count()
		lastReload := d.MemoryIndex.GetLastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		snap := d.MemoryIndex.Snapshot()
		components := map[string]componentStatus{
			"config": {
				OK:           !lastReload.IsZero(),
				GroupsLoaded: &groupsCount,
				LastReload:   lastReloadStr,
				Tier:         d.MemoryIndex.Tier(),
				Path:         d.Manager.Store().Path(),
			},
			"source": sourceStatus(snap.ScrapboxPageURL),
			"redis":  checkRedis(r.Context(), d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func sourceStatus(pageURL string) componentStatus {
	if pageURL == "" {
		return componentStatus{OK: true, Mode: "local-only"}
	}
	return componentStatus{OK: true, Mode: "synced", URL: pageURL}
}

// determineMode is "recovered" when the last load came from the backup or
// the defaults, "degraded" when Redis is configured but down.
func determineMode(components map[string]componentStatus) string {
	if cfg, exists := components["config"]; exists {
		if !cfg.OK {
			return "critical"
		}
		if cfg.Tier != "" && cfg.Tier != "primary" {
			return "recovered"
		}
	}

	if redis, exists := components["redis"]; exists && !redis.OK && redis.Mode != "disabled" {
		return "degraded"
	}

	return "ok"
}

func checkRedis(parent context.Context, d deps.Deps) componentStatus {
	if d.UsageStore == nil {
		return componentStatus{
			OK:     false,
			Mode:   "disabled",
			Impact: "usage-ranking-memory-only",
		}
	}

	ctx, cancel := context.WithTimeout(parent, 2*time.Second)
	defer cancel()

	if err := d.UsageStore.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "usage-counters-not-persisted",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "usage-counters-persisted",
	}
}
