package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/topdoor/internal/groups"
	"github.com/MrSnakeDoc/topdoor/internal/logger"
	"github.com/MrSnakeDoc/topdoor/internal/sources"
)

// SourceFactory builds a source for the page URL recorded in the
// configuration.
type SourceFactory func(pageURL string) (sources.Source, error)

// SourceReloader refreshes the groups from the recorded source page
type SourceReloader struct {
	manager       *groups.Manager
	newSource     SourceFactory
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewSourceReloader creates a new source reloader. An interval of 0
// disables the periodic refresh; the manual trigger still works.
func NewSourceReloader(
	manager *groups.Manager,
	newSource SourceFactory,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *SourceReloader {
	return &SourceReloader{
		manager:       manager,
		newSource:     newSource,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic reload process
func (sr *SourceReloader) Start(ctx context.Context) error {
	var ticker *time.Ticker
	var tick <-chan time.Time
	if sr.interval > 0 {
		// Refresh immediately on start, a failure is not fatal
		if err := sr.Reload(ctx); err != nil {
			sr.logger.Warn("initial source reload failed",
				logger.Error(err))
		}
		ticker = time.NewTicker(sr.interval)
		tick = ticker.C
	}

	go func() {
		if ticker != nil {
			defer ticker.Stop()
		}
		for {
			select {
			case <-tick:
				if err := sr.Reload(ctx); err != nil {
					sr.logger.Error("failed to reload source",
						logger.Error(err))
				}
			case <-sr.manualTrigger:
				sr.logger.Info("manual source reload triggered")
				if err := sr.Reload(ctx); err != nil {
					sr.logger.Error("failed to reload source",
						logger.Error(err))
				}
			case <-sr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (sr *SourceReloader) Stop() {
	close(sr.stopCh)
}

// Reload fetches the recorded page and applies its groups. Without a
// recorded page it does nothing.
func (sr *SourceReloader) Reload(ctx context.Context) error {
	pageURL := sr.manager.Snapshot().ScrapboxPageURL
	if pageURL == "" {
		sr.logger.Debug("no source page recorded, skipping reload")
		return nil
	}

	sr.logger.Info("reloading groups from source",
		logger.String("url", pageURL))

	src, err := sr.newSource(pageURL)
	if err != nil {
		return fmt.Errorf("failed to build source: %w", err)
	}

	res, err := src.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch source: %w", err)
	}

	if err := sr.manager.ApplySync(ctx, res); err != nil {
		return fmt.Errorf("failed to apply source: %w", err)
	}

	sr.logger.Info("groups reloaded from source",
		logger.Int("count", len(res.Groups)))
	return nil
}
