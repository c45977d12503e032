package index

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/topdoor/internal/domain"
)

// MemoryIndex holds the published configuration snapshot and the launch
// counters. Readers never see a half-applied mutation: the snapshot is
// replaced as a whole.
type MemoryIndex struct {
	mu         sync.RWMutex
	config     domain.Configuration
	usage      map[string]int64     // group ID -> launch count
	lastUsed   map[string]time.Time // group ID -> last launch
	lastReload time.Time            // Timestamp of last snapshot publish
	tier       string               // recovery tier of the last load
}

// NewMemoryIndex creates an empty index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		usage:    make(map[string]int64),
		lastUsed: make(map[string]time.Time),
	}
}

// Publish replaces the current snapshot
func (idx *MemoryIndex) Publish(cfg domain.Configuration, tier string) {
	cfg = cfg.Clone()

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.config = cfg
	idx.tier = tier
	idx.lastReload = time.Now()
}

// Snapshot returns a copy of the current configuration
func (idx *MemoryIndex) Snapshot() domain.Configuration {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.config.Clone()
}

// Group retrieves a group by ID
func (idx *MemoryIndex) Group(id string) (domain.LinkGroup, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.config.Group(id)
}

// Count returns the number of groups in the snapshot
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.config.Groups)
}

// Tier returns where the current snapshot was loaded from
func (idx *MemoryIndex) Tier() string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.tier
}

// GetLastReload returns the timestamp of the last publish
func (idx *MemoryIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}

// ─────────────────────────────────────────────────────────────────
// Usage counters
// ─────────────────────────────────────────────────────────────────

// IncrementCounter records one launch of a group
func (idx *MemoryIndex) IncrementCounter(id string, at time.Time) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.usage[id]++
	idx.lastUsed[id] = at
}

// SetUsage replaces the counter of a group, used when syncing from Redis
func (idx *MemoryIndex) SetUsage(id string, count int64, last time.Time) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.usage[id] = count
	if !last.IsZero() {
		idx.lastUsed[id] = last
	}
}

// Counter returns the launch count of a group
func (idx *MemoryIndex) Counter(id string) int64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.usage[id]
}

// LastLaunched returns when a group was last launched
func (idx *MemoryIndex) LastLaunched(id string) (time.Time, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	t, ok := idx.lastUsed[id]
	return t, ok
}

// Usage returns a copy of all counters
func (idx *MemoryIndex) Usage() map[string]int64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make(map[string]int64, len(idx.usage))
	for id, n := range idx.usage {
		out[id] = n
	}
	return out
}

// DeleteUsage forgets the counters of a group
func (idx *MemoryIndex) DeleteUsage(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.usage, id)
	delete(idx.lastUsed, id)
}

// OrphanedUsage returns counter ids that match no group in the snapshot
func (idx *MemoryIndex) OrphanedUsage() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	known := make(map[string]bool, len(idx.config.Groups))
	for _, g := range idx.config.Groups {
		known[g.ID] = true
	}

	var orphans []string
	for id := range idx.usage {
		if !known[id] {
			orphans = append(orphans, id)
		}
	}
	return orphans
}
