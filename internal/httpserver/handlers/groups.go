package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/topdoor/internal/domain"
	"github.com/MrSnakeDoc/topdoor/internal/httpserver/deps"
)

type groupSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ItemCount int    `json:"itemCount"`
	Launches  int64  `json:"launches"`
}

type groupRequest struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Items    []string `json:"items"`
	OpenWith string   `json:"openWith"`
}

func (g groupRequest) toGroup() domain.LinkGroup {
	return domain.LinkGroup{
		ID:       g.ID,
		Name:     g.Name,
		Items:    g.Items,
		OpenWith: g.OpenWith,
	}
}

type moveRequest struct {
	Index *int `json:"index"`
}

// ListGroups returns the groups in display order with their launch counts.
func ListGroups(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := d.MemoryIndex.Snapshot()
		out := make([]groupSummary, 0, len(snap.Groups))
		for _, g := range snap.Groups {
			out = append(out, groupSummary{
				ID:        g.ID,
				Name:      g.Name,
				ItemCount: len(g.Items),
				Launches:  d.MemoryIndex.Counter(g.ID),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func GetGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		g, ok := d.Manager.Group(id)
		if !ok {
			writeError(w, d, domain.ErrGroupNotFound)
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

func CreateGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req groupRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
		created, err := d.Manager.Add(r.Context(), req.toGroup())
		if err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// UpdateGroup replaces name, items and openWith. The id comes from the path.
func UpdateGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req groupRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
		g := req.toGroup()
		g.ID = chi.URLParam(r, "id")
		if err := d.Manager.Update(r.Context(), g); err != nil {
			writeError(w, d, err)
			return
		}
		updated, _ := d.Manager.Group(g.ID)
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Manager.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func MoveGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req moveRequest
		if err := decodeBody(w, r, &req); err != nil || req.Index == nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: `body must be {"index": n}`})
			return
		}
		if err := d.Manager.Move(r.Context(), chi.URLParam(r, "id"), *req.Index); err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Manager.Snapshot().Groups)
	}
}
