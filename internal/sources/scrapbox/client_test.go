package scrapbox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/topdoor/internal/domain"
	"github.com/MrSnakeDoc/topdoor/internal/logger"
)

func newPageServer(t *testing.T, status int, body any) (*httptest.Server, *string) {
	t.Helper()
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &gotPath
}

func TestFetchPage(t *testing.T) {
	srv, gotPath := newPageServer(t, http.StatusOK, map[string]any{
		"title": "Dev Links",
		"lines": []map[string]any{
			{"id": "1", "text": "Dev Links"},
			{"id": "2", "text": "[Daily]"},
			{"id": "3", "text": " https://github.com"},
		},
	})

	c := NewClient(srv.URL, 5*time.Second, logger.NewNop())
	page, err := c.FetchPage(context.Background(), PageRef{Project: "team", Page: "Dev Links"})
	require.NoError(t, err)

	assert.Equal(t, "/api/pages/team/Dev%20Links", *gotPath)
	assert.Equal(t, "Dev Links", page.Title)
	require.Len(t, page.Lines, 3)
	assert.Equal(t, " https://github.com", page.Lines[2].Text)
}

func TestFetchPageErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
	}{
		{name: "not found", status: http.StatusNotFound, body: map[string]string{"message": "Page not found."}},
		{name: "server error", status: http.StatusInternalServerError, body: nil},
		{name: "wrong shape", status: http.StatusOK, body: []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newPageServer(t, tt.status, tt.body)
			c := NewClient(srv.URL, 5*time.Second, nil)

			_, err := c.FetchPage(context.Background(), PageRef{Project: "team", Page: "Links"})
			require.ErrorIs(t, err, domain.ErrSourceFetchFailure)
		})
	}
}

func TestFetchPageUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second, nil)
	_, err := c.FetchPage(context.Background(), PageRef{Project: "team", Page: "Links"})
	require.ErrorIs(t, err, domain.ErrSourceFetchFailure)
}

func TestSourceFetch(t *testing.T) {
	srv, _ := newPageServer(t, http.StatusOK, map[string]any{
		"title": "Links",
		"lines": []map[string]any{
			{"text": "Links"},
			{"text": "Daily"},
			{"text": " https://github.com"},
			{"text": " /Applications/Slack.app"},
		},
	})

	src, err := NewSource("https://scrapbox.io/team/Links", "", NewClient(srv.URL, 5*time.Second, nil), nil)
	require.NoError(t, err)

	res, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://scrapbox.io/team/Links", res.PageURL)
	assert.Equal(t, "Links", res.PageName)
	assert.Equal(t, "team", res.ProjectName)
	require.Len(t, res.Groups, 1)
	assert.Equal(t, "links-1", res.Groups[0].ID)
	assert.Equal(t, []string{"https://github.com", "/Applications/Slack.app"}, res.Groups[0].Items)
}

func TestNewSourceRejectsInvalidURL(t *testing.T) {
	_, err := NewSource("https://example.com/team/Links", "", NewClient("http://unused", time.Second, nil), nil)
	require.ErrorIs(t, err, domain.ErrInvalidSourceURL)
}
