package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/topdoor/internal/httpserver"
	"github.com/MrSnakeDoc/topdoor/internal/httpserver/deps"
	"github.com/MrSnakeDoc/topdoor/internal/logger"
	"github.com/MrSnakeDoc/topdoor/internal/scheduler"
	"github.com/MrSnakeDoc/topdoor/internal/version"
)

// App is the long-running `topdoor serve` process: the HTTP API plus the
// background schedulers.
type App struct {
	core     *Core
	logger   logger.Logger
	server   *httpserver.Server
	reloader *scheduler.SourceReloader
	watcher  *scheduler.ConfigWatcher
	pruner   *scheduler.UsagePruner
}

func New(core *Core) *App {
	cfg := core.Config
	log := core.Logger

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewSourceReloader(
		core.Manager,
		core.NewSource,
		log,
		cfg.SyncInterval,
		reloadTrigger,
	)

	var watcher *scheduler.ConfigWatcher
	if cfg.WatchConfig {
		watcher = scheduler.NewConfigWatcher(core.Manager, log, scheduler.DefaultWatchDebounce)
	}

	var pruner *scheduler.UsagePruner
	if core.UsageStore != nil {
		pruner = scheduler.NewUsagePruner(
			core.UsageStore,
			core.Index,
			log,
			cfg.UsagePruneInterval,
			scheduler.DefaultPruneGrace,
		)
	}

	d := deps.Deps{
		Logger:        log,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		Manager:       core.Manager,
		MemoryIndex:   core.Index,
		Launcher:      core.Launcher,
		UsageStore:    core.UsageStore,
		NewSource:     core.NewSource,
		ReloadTrigger: reloadTrigger,
		LaunchBurst:   cfg.LaunchBurst,
		LaunchPerMin:  cfg.LaunchPerMin,
	}

	return &App{
		core:     core,
		logger:   log,
		server:   httpserver.New(cfg, log, d),
		reloader: reloader,
		watcher:  watcher,
		pruner:   pruner,
	}
}

// Run starts the schedulers and the server and blocks until ctx is done
// or the server fails.
func (a *App) Run(ctx context.Context) error {
	cfg := a.core.Config
	a.logger.Infof("🚀 Starting topDoor v%s on %s", version.Version, cfg.ListenAddr)
	a.logger.Info(version.String())

	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start source reloader: %w", err)
	}
	a.logger.Info("source reloader started",
		logger.Duration("interval", cfg.SyncInterval))

	if a.watcher != nil {
		if err := a.watcher.Start(ctx); err != nil {
			a.logger.Warn("configuration watcher disabled", logger.Error(err))
			a.watcher = nil
		}
	}

	if a.pruner != nil {
		if err := a.pruner.Start(ctx); err != nil {
			return fmt.Errorf("failed to start usage pruner: %w", err)
		}
		a.logger.Info("usage pruner started",
			logger.Duration("interval", cfg.UsagePruneInterval))
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.server.Start(); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("⏳ Shutting down gracefully...")
		a.stopSchedulers()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := a.server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	a.logger.Info("✅ topDoor stopped cleanly")
	return nil
}

func (a *App) stopSchedulers() {
	a.reloader.Stop()
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.pruner != nil {
		a.pruner.Stop()
	}
}
