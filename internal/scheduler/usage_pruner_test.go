package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/MrSnakeDoc/topdoor/internal/domain"
	"github.com/MrSnakeDoc/topdoor/internal/index"
	"github.com/MrSnakeDoc/topdoor/internal/logger"
)

func TestUsagePruner_Prune(t *testing.T) {
	log := logger.New("error", false)
	memIndex := index.NewMemoryIndex()
	memIndex.Publish(domain.Configuration{
		Groups: []domain.LinkGroup{{ID: "active", Name: "Active"}},
	}, "primary")

	now := time.Now()
	memIndex.IncrementCounter("active", now)
	memIndex.IncrementCounter("removed", now)

	// Create pruner with 7 day grace
	pruner := NewUsagePruner(
		nil, // no Redis store for this test
		memIndex,
		log,
		24*time.Hour,
		7*24*time.Hour,
	)
	clock := now
	pruner.now = func() time.Time { return clock }

	// First pass only notices the orphan
	if err := pruner.Prune(context.Background()); err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if memIndex.Counter("removed") != 1 {
		t.Error("orphaned counter was removed before the grace period")
	}

	// Still inside the grace period
	clock = now.Add(3 * 24 * time.Hour)
	if err := pruner.Prune(context.Background()); err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if memIndex.Counter("removed") != 1 {
		t.Error("orphaned counter was removed inside the grace period")
	}

	// Past the grace period
	clock = now.Add(8 * 24 * time.Hour)
	if err := pruner.Prune(context.Background()); err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if memIndex.Counter("removed") != 0 {
		t.Error("orphaned counter was not removed")
	}
	if memIndex.Counter("active") != 1 {
		t.Error("active counter was incorrectly removed")
	}
}

func TestUsagePruner_GroupComesBack(t *testing.T) {
	memIndex := index.NewMemoryIndex()
	memIndex.IncrementCounter("flaky", time.Now())

	pruner := NewUsagePruner(nil, memIndex, logger.NewNop(), time.Hour, time.Hour)
	clock := time.Now()
	pruner.now = func() time.Time { return clock }

	_ = pruner.Prune(context.Background())

	// The group reappears, e.g. after a sync, then disappears again.
	memIndex.Publish(domain.Configuration{Groups: []domain.LinkGroup{{ID: "flaky", Name: "Flaky"}}}, "primary")
	clock = clock.Add(2 * time.Hour)
	_ = pruner.Prune(context.Background())

	memIndex.Publish(domain.Configuration{}, "primary")
	clock = clock.Add(2 * time.Hour)
	_ = pruner.Prune(context.Background())

	if memIndex.Counter("flaky") != 1 {
		t.Error("grace period should restart when a group comes back")
	}
}

func TestUsageSyncer_NoStore(t *testing.T) {
	syncer := NewUsageSyncer(nil, index.NewMemoryIndex(), logger.NewNop())
	if err := syncer.Sync(context.Background()); err != nil {
		t.Errorf("Sync() without store error = %v", err)
	}
}
