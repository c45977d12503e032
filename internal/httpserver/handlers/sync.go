package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/topdoor/internal/httpserver/deps"
	"github.com/MrSnakeDoc/topdoor/internal/logger"
)

type syncRequest struct {
	URL string `json:"url"`
}

type syncResponse struct {
	PageURL string `json:"pageUrl"`
	Groups  int    `json:"groups"`
}

type triggerResponse struct {
	Triggered bool   `json:"triggered"`
	Message   string `json:"message"`
}

// Sync fetches the page named by {"url": ...} and replaces the groups with
// its content. Without a url, a refresh of the recorded page is queued on
// the source reloader instead.
func Sync(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req syncRequest
		if err := decodeBody(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}

		pageURL := strings.TrimSpace(req.URL)
		if pageURL == "" {
			triggerReload(w, r, d)
			return
		}

		src, err := d.NewSource(pageURL)
		if err != nil {
			writeError(w, d, err)
			return
		}
		res, err := src.Fetch(r.Context())
		if err != nil {
			writeError(w, d, err)
			return
		}
		if err := d.Manager.ApplySync(r.Context(), res); err != nil {
			writeError(w, d, err)
			return
		}

		d.Logger.Info("groups synced from page",
			logger.String("url", res.PageURL),
			logger.Int("groups", len(res.Groups)),
			logger.String("remote_ip", r.RemoteAddr))
		writeJSON(w, http.StatusOK, syncResponse{PageURL: res.PageURL, Groups: len(res.Groups)})
	}
}

func triggerReload(w http.ResponseWriter, r *http.Request, d deps.Deps) {
	if d.MemoryIndex.Snapshot().ScrapboxPageURL == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no page recorded, pass a url"})
		return
	}
	select {
	case d.ReloadTrigger <- struct{}{}:
		d.Logger.Info("manual page refresh triggered via endpoint",
			logger.String("remote_ip", r.RemoteAddr))
		writeJSON(w, http.StatusAccepted, triggerResponse{Triggered: true, Message: "refresh triggered"})
	default:
		d.Logger.Warn("page refresh already in progress",
			logger.String("remote_ip", r.RemoteAddr))
		writeJSON(w, http.StatusTooManyRequests, triggerResponse{Message: "refresh already in progress, please wait"})
	}
}
