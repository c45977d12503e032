package scrapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrSnakeDoc/topdoor/internal/domain"
	"github.com/MrSnakeDoc/topdoor/internal/logger"
	"github.com/MrSnakeDoc/topdoor/internal/utils"
)

const maxPageBytes = 4 << 20

// Page is the subset of the pages API response topdoor reads.
type Page struct {
	Title string `json:"title"`
	Lines []Line `json:"lines"`
}

// Line is one line of page text, indentation included.
type Line struct {
	Text string `json:"text"`
}

// Client talks to the Scrapbox pages API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logger.Logger
}

// NewClient creates a client for baseURL, e.g. "https://scrapbox.io".
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  log,
	}
}

// FetchPage calls GET <base>/api/pages/<project>/<page>.
func (c *Client) FetchPage(ctx context.Context, ref PageRef) (*Page, error) {
	endpoint := fmt.Sprintf("%s/api/pages/%s/%s",
		c.baseURL, url.PathEscape(ref.Project), url.PathEscape(ref.Page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceFetchFailure, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceFetchFailure, err)
	}
	defer utils.Close(resp.Body)

	c.logger.Debug("scrapbox page fetched",
		logger.String("url", endpoint),
		logger.Int("status", resp.StatusCode),
		logger.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %s", domain.ErrSourceFetchFailure, endpoint, resp.Status)
	}

	var page Page
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPageBytes)).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: decode page: %v", domain.ErrSourceFetchFailure, err)
	}
	return &page, nil
}
