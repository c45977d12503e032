// Package scrapbox imports link groups from a Scrapbox wiki page.
package scrapbox

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/topdoor/internal/domain"
)

// DefaultHost is the public Scrapbox service.
const DefaultHost = "scrapbox.io"

// PageRef identifies one page. Page is the display name: percent escapes
// decoded and underscores turned into spaces.
type PageRef struct {
	URL     string
	Host    string
	Project string
	Page    string
}

// ParsePageURL accepts http(s)://<host>/<project>/<page>[/...]. Anything
// else wraps domain.ErrInvalidSourceURL.
func ParsePageURL(raw, host string) (PageRef, error) {
	raw = strings.TrimSpace(raw)
	if host == "" {
		host = DefaultHost
	}

	u, err := url.Parse(raw)
	if err != nil {
		return PageRef{}, fmt.Errorf("%w: %v", domain.ErrInvalidSourceURL, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return PageRef{}, fmt.Errorf("%w: scheme must be https, got %q", domain.ErrInvalidSourceURL, u.Scheme)
	}
	if !strings.EqualFold(u.Hostname(), host) {
		return PageRef{}, fmt.Errorf("%w: host must be %s, got %q", domain.ErrInvalidSourceURL, host, u.Hostname())
	}

	parts := strings.Split(u.EscapedPath(), "/")
	if len(parts) < 3 || parts[1] == "" || parts[2] == "" {
		return PageRef{}, fmt.Errorf("%w: expected /<project>/<page>, got %q", domain.ErrInvalidSourceURL, u.Path)
	}

	project := unescape(parts[1])
	page := strings.ReplaceAll(unescape(parts[2]), "_", " ")
	if strings.TrimSpace(page) == "" {
		return PageRef{}, fmt.Errorf("%w: empty page name", domain.ErrInvalidSourceURL)
	}

	return PageRef{
		URL:     raw,
		Host:    u.Host,
		Project: project,
		Page:    page,
	}, nil
}

// unescape keeps the raw segment when it holds a malformed escape.
func unescape(s string) string {
	if out, err := url.PathUnescape(s); err == nil {
		return out
	}
	return s
}

// Slug is the id prefix of every group imported from the page.
func (r PageRef) Slug() string {
	if s := domain.Slug(r.Page); s != "" {
		return s
	}
	return "page"
}
