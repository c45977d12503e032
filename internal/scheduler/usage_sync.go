package scheduler

import (
	"context"

	"github.com/MrSnakeDoc/topdoor/internal/index"
	"github.com/MrSnakeDoc/topdoor/internal/logger"
	redisstore "github.com/MrSnakeDoc/topdoor/internal/store/redis"
)

// UsageSyncer copies persisted launch counters from Redis into the memory
// index on startup
type UsageSyncer struct {
	store  *redisstore.Store
	index  *index.MemoryIndex
	logger logger.Logger
}

// NewUsageSyncer creates a new usage syncer
func NewUsageSyncer(
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
) *UsageSyncer {
	return &UsageSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync loads counters from Redis and updates the memory index
func (us *UsageSyncer) Sync(ctx context.Context) error {
	if us.store == nil {
		return nil
	}

	us.logger.Info("syncing launch counters from redis to memory")

	stats, err := us.store.GetAllUsage(ctx)
	if err != nil {
		return err
	}

	if len(stats) == 0 {
		us.logger.Info("no launch counters found in redis")
		return nil
	}

	for id, u := range stats {
		us.index.SetUsage(id, u.Count, u.LastLaunched)
	}

	us.logger.Info("synced launch counters from redis",
		logger.Int("count", len(stats)))

	return nil
}
