// Package groups serialises every change to the link-group configuration:
// one mutation at a time is applied, saved and then published.
package groups

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/MrSnakeDoc/topdoor/internal/domain"
	"github.com/MrSnakeDoc/topdoor/internal/index"
	"github.com/MrSnakeDoc/topdoor/internal/logger"
	"github.com/MrSnakeDoc/topdoor/internal/sources"
	"github.com/MrSnakeDoc/topdoor/internal/store/file"
)

// Manager owns the configuration store and the published snapshot.
type Manager struct {
	mu     sync.Mutex
	store  *file.Store
	index  *index.MemoryIndex
	logger logger.Logger
}

// NewManager creates a manager. Nothing is loaded until Load is called.
func NewManager(store *file.Store, idx *index.MemoryIndex, log logger.Logger) *Manager {
	if log == nil {
		log = logger.NewNop()
	}
	return &Manager{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Load reads the configuration through the recovery chain and publishes it.
func (m *Manager) Load(ctx context.Context) file.LoadResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := m.store.LoadWithSource(ctx)
	m.index.Publish(res.Config, string(res.Tier))

	m.logger.Info("configuration published",
		logger.String("tier", string(res.Tier)),
		logger.Int("groups", len(res.Config.Groups)))
	return res
}

// Reload is Load under the name the watcher and the API use.
func (m *Manager) Reload(ctx context.Context) file.LoadResult {
	return m.Load(ctx)
}

// Snapshot returns the current configuration.
func (m *Manager) Snapshot() domain.Configuration {
	return m.index.Snapshot()
}

// Group returns one group of the current configuration.
func (m *Manager) Group(id string) (domain.LinkGroup, bool) {
	return m.index.Group(id)
}

// Store exposes the underlying store for path reporting.
func (m *Manager) Store() *file.Store {
	return m.store
}

// Add appends a group and returns it with its final id.
func (m *Manager) Add(ctx context.Context, g domain.LinkGroup) (domain.LinkGroup, error) {
	var added domain.LinkGroup
	err := m.mutate(ctx, "add", func(cfg domain.Configuration) (domain.Configuration, error) {
		next, created, err := cfg.AddGroup(g)
		added = created
		return next, err
	})
	if err != nil {
		return domain.LinkGroup{}, err
	}
	return added, nil
}

// Remove deletes a group.
func (m *Manager) Remove(ctx context.Context, id string) error {
	return m.mutate(ctx, "remove", func(cfg domain.Configuration) (domain.Configuration, error) {
		return cfg.RemoveGroup(id)
	})
}

// Move changes the display position of a group.
func (m *Manager) Move(ctx context.Context, id string, to int) error {
	return m.mutate(ctx, "move", func(cfg domain.Configuration) (domain.Configuration, error) {
		return cfg.MoveGroup(id, to)
	})
}

// Update replaces the content of an existing group.
func (m *Manager) Update(ctx context.Context, g domain.LinkGroup) error {
	return m.mutate(ctx, "update", func(cfg domain.Configuration) (domain.Configuration, error) {
		return cfg.UpdateGroup(g)
	})
}

// Reset replaces everything with the default configuration.
func (m *Manager) Reset(ctx context.Context) error {
	return m.mutate(ctx, "reset", func(domain.Configuration) (domain.Configuration, error) {
		return domain.DefaultConfiguration(), nil
	})
}

// ApplySync replaces the groups with the ones a source produced and
// records where they came from.
func (m *Manager) ApplySync(ctx context.Context, res *sources.Result) error {
	if res == nil || len(res.Groups) == 0 {
		return fmt.Errorf("%w: no groups to apply", domain.ErrSourceFetchFailure)
	}
	return m.mutate(ctx, "sync", func(cfg domain.Configuration) (domain.Configuration, error) {
		next := cfg.WithSource(res.Groups, res.PageURL, res.PageName, res.ProjectName).FillMissingIDs()
		if err := next.Validate(); err != nil {
			return cfg, err
		}
		return next, nil
	})
}

// Import appends groups in one save. Ids already taken are regenerated
// from the group name instead of failing the whole import.
func (m *Manager) Import(ctx context.Context, groups []domain.LinkGroup) ([]domain.LinkGroup, error) {
	var added []domain.LinkGroup
	err := m.mutate(ctx, "import", func(cfg domain.Configuration) (domain.Configuration, error) {
		added = added[:0]
		next := cfg
		for _, g := range groups {
			if _, taken := next.Group(g.ID); taken {
				g.ID = ""
			}
			var created domain.LinkGroup
			var err error
			next, created, err = next.AddGroup(g)
			if err != nil {
				return cfg, err
			}
			added = append(added, created)
		}
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// SetSourceURL records the page URL without touching the groups.
func (m *Manager) SetSourceURL(ctx context.Context, pageURL string) error {
	pageURL = strings.TrimSpace(pageURL)
	return m.mutate(ctx, "set-source", func(cfg domain.Configuration) (domain.Configuration, error) {
		next := cfg.Clone()
		if next.ScrapboxPageURL != pageURL {
			next.ScrapboxPageName = ""
			next.ScrapboxProjectName = ""
		}
		next.ScrapboxPageURL = pageURL
		return next, nil
	})
}

// mutate applies fn to the current snapshot, saves the result and only
// then publishes it. On any error the snapshot is left as it was.
func (m *Manager) mutate(ctx context.Context, op string, fn func(domain.Configuration) (domain.Configuration, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := fn(m.index.Snapshot())
	if err != nil {
		m.logger.Debug("mutation rejected",
			logger.String("op", op),
			logger.Error(err))
		return err
	}

	if err := m.store.Save(ctx, next); err != nil {
		m.logger.Error("failed to save configuration",
			logger.String("op", op),
			logger.String("path", m.store.Path()),
			logger.Error(err))
		return err
	}

	m.index.Publish(next, string(file.TierPrimary))
	m.logger.Info("configuration updated",
		logger.String("op", op),
		logger.Int("groups", len(next.Groups)))
	return nil
}
