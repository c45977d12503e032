package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/topdoor/internal/domain"
	"github.com/MrSnakeDoc/topdoor/internal/httpserver/deps"
	"github.com/MrSnakeDoc/topdoor/internal/launcher"
	"github.com/MrSnakeDoc/topdoor/internal/logger"
)

type itemResult struct {
	Item  string          `json:"item"`
	Kind  domain.ItemKind `json:"kind"`
	OK    bool            `json:"ok"`
	Error string          `json:"error,omitempty"`
}

type launchResponse struct {
	GroupID string       `json:"groupId"`
	Name    string       `json:"name"`
	Failed  int          `json:"failed"`
	Results []itemResult `json:"results"`
}

func toLaunchResponse(g domain.LinkGroup, report launcher.Report) launchResponse {
	out := launchResponse{
		GroupID: report.GroupID,
		Name:    g.Name,
		Failed:  report.Failed(),
		Results: make([]itemResult, 0, len(report.Results)),
	}
	for _, res := range report.Results {
		ir := itemResult{Item: res.Item, Kind: res.Kind, OK: res.Err == nil}
		if res.Err != nil {
			ir.Error = res.Err.Error()
		}
		out.Results = append(out.Results, ir)
	}
	return out
}

// LaunchGroup opens every item of the group named in the path. Item
// failures are reported per item; the request itself still succeeds.
func LaunchGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, ok := d.Manager.Group(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, d, domain.ErrGroupNotFound)
			return
		}
		report := d.Launcher.LaunchGroup(r.Context(), g)
		writeJSON(w, http.StatusOK, toLaunchResponse(g, report))
	}
}

type openRequest struct {
	Q string `json:"q"`
}

// Open picks the best group for the query (lexical match boosted by
// launch counts) and launches it. The query comes from ?q= or from a
// {"q": "..."} body.
func Open(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == "" {
			var req openRequest
			if err := decodeBody(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
				return
			}
			q = req.Q
		}
		q = strings.TrimSpace(q)
		if q == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing query q"})
			return
		}

		snap := d.MemoryIndex.Snapshot()
		g, ok := domain.FindBestGroup(q, snap.Groups, d.MemoryIndex.Usage())
		if !ok {
			d.Logger.Debug("no group matched", logger.String("query", q))
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "no group matches " + q})
			return
		}

		report := d.Launcher.LaunchGroup(r.Context(), g)
		writeJSON(w, http.StatusOK, toLaunchResponse(g, report))
	}
}
