// Package sources defines the contract shared by external group sources.
package sources

import (
	"context"

	"github.com/MrSnakeDoc/topdoor/internal/domain"
)

// Source produces a full list of groups from somewhere outside the
// configuration file.
type Source interface {
	Fetch(ctx context.Context) (*Result, error)
}

// Result is what a Source produced, plus the provenance recorded in the
// configuration metadata.
type Result struct {
	Groups      []domain.LinkGroup
	PageURL     string
	PageName    string
	ProjectName string
}
