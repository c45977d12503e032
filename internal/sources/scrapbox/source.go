package scrapbox

import (
	"context"

	"github.com/MrSnakeDoc/topdoor/internal/logger"
	"github.com/MrSnakeDoc/topdoor/internal/sources"
)

// Source fetches one page and turns it into groups.
type Source struct {
	ref    PageRef
	client *Client
	logger logger.Logger
}

// NewSource validates rawURL against host and binds it to client.
func NewSource(rawURL, host string, client *Client, log logger.Logger) (*Source, error) {
	ref, err := ParsePageURL(rawURL, host)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Source{ref: ref, client: client, logger: log}, nil
}

// Ref returns the page this source reads.
func (s *Source) Ref() PageRef {
	return s.ref
}

// Fetch implements sources.Source.
func (s *Source) Fetch(ctx context.Context) (*sources.Result, error) {
	page, err := s.client.FetchPage(ctx, s.ref)
	if err != nil {
		return nil, err
	}

	groups, err := Parse(page, s.ref)
	if err != nil {
		return nil, err
	}

	s.logger.Info("loaded groups from scrapbox",
		logger.String("project", s.ref.Project),
		logger.String("page", s.ref.Page),
		logger.Int("count", len(groups)))

	return &sources.Result{
		Groups:      groups,
		PageURL:     s.ref.URL,
		PageName:    s.ref.Page,
		ProjectName: s.ref.Project,
	}, nil
}
