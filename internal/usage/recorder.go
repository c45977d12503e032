// Package usage counts group launches in memory and, when Redis is
// configured, persists the counters.
package usage

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/topdoor/internal/index"
	redisstore "github.com/MrSnakeDoc/topdoor/internal/store/redis"
)

// Recorder implements launcher.UsageRecorder.
type Recorder struct {
	index *index.MemoryIndex
	store *redisstore.Store
}

// NewRecorder creates a recorder. store may be nil.
func NewRecorder(idx *index.MemoryIndex, store *redisstore.Store) *Recorder {
	return &Recorder{index: idx, store: store}
}

// RecordLaunch bumps the in-memory counter and then the Redis one. The
// memory counter is updated even when Redis fails.
func (r *Recorder) RecordLaunch(ctx context.Context, groupID string, at time.Time) error {
	r.index.IncrementCounter(groupID, at)
	if r.store == nil {
		return nil
	}
	return r.store.RecordLaunch(ctx, groupID, at)
}

// Enabled reports whether counters are persisted.
func (r *Recorder) Enabled() bool {
	return r.store != nil
}
