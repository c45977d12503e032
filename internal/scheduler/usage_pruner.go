package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/topdoor/internal/index"
	"github.com/MrSnakeDoc/topdoor/internal/logger"
	redisstore "github.com/MrSnakeDoc/topdoor/internal/store/redis"
)

const (
	// DefaultPruneGrace is how long a counter may outlive its group
	DefaultPruneGrace = 7 * 24 * time.Hour
)

// UsagePruner removes counters of groups that no longer exist. A counter
// is only removed after its group has been missing for the grace period,
// so a sync that briefly drops a group does not reset its history.
type UsagePruner struct {
	store    *redisstore.Store
	index    *index.MemoryIndex
	logger   logger.Logger
	interval time.Duration
	grace    time.Duration
	stopCh   chan struct{}
	now      func() time.Time

	missingSince map[string]time.Time
}

// NewUsagePruner creates a new usage pruner
func NewUsagePruner(
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	grace time.Duration,
) *UsagePruner {
	if grace == 0 {
		grace = DefaultPruneGrace
	}

	return &UsagePruner{
		store:        store,
		index:        idx,
		logger:       log,
		interval:     interval,
		grace:        grace,
		stopCh:       make(chan struct{}),
		now:          time.Now,
		missingSince: make(map[string]time.Time),
	}
}

// Start begins the periodic pruning process
func (up *UsagePruner) Start(ctx context.Context) error {
	if up.interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(up.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := up.Prune(ctx); err != nil {
					up.logger.Error("usage pruning failed",
						logger.Error(err))
				}
			case <-up.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the pruner
func (up *UsagePruner) Stop() {
	close(up.stopCh)
}

// Prune removes counters whose group has been gone for longer than the
// grace period.
func (up *UsagePruner) Prune(ctx context.Context) error {
	now := up.now()
	orphans := up.index.OrphanedUsage()

	current := make(map[string]bool, len(orphans))
	deleted := 0
	for _, id := range orphans {
		current[id] = true

		since, seen := up.missingSince[id]
		if !seen {
			up.missingSince[id] = now
			continue
		}
		if now.Sub(since) < up.grace {
			continue
		}

		up.index.DeleteUsage(id)
		delete(up.missingSince, id)

		// Delete from Redis store (best effort)
		if up.store != nil {
			if err := up.store.DeleteUsage(ctx, id); err != nil {
				up.logger.Warn("failed to delete usage from redis",
					logger.String("group_id", id),
					logger.Error(err))
			}
		}

		up.logger.Info("pruned launch counter",
			logger.String("group_id", id),
			logger.Duration("missing_for", now.Sub(since)))
		deleted++
	}

	// Groups that came back are no longer candidates.
	for id := range up.missingSince {
		if !current[id] {
			delete(up.missingSince, id)
		}
	}

	if deleted > 0 {
		up.logger.Info("usage pruning completed",
			logger.Int("deleted", deleted))
	} else {
		up.logger.Debug("no launch counters to prune")
	}
	return nil
}
