package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/topdoor/internal/config"
	"github.com/MrSnakeDoc/topdoor/internal/groups"
	"github.com/MrSnakeDoc/topdoor/internal/index"
	"github.com/MrSnakeDoc/topdoor/internal/launcher"
	"github.com/MrSnakeDoc/topdoor/internal/logger"
	"github.com/MrSnakeDoc/topdoor/internal/redis"
	"github.com/MrSnakeDoc/topdoor/internal/scheduler"
	"github.com/MrSnakeDoc/topdoor/internal/sources"
	"github.com/MrSnakeDoc/topdoor/internal/sources/scrapbox"
	"github.com/MrSnakeDoc/topdoor/internal/store/file"
	redisstore "github.com/MrSnakeDoc/topdoor/internal/store/redis"
	"github.com/MrSnakeDoc/topdoor/internal/usage"
)

// Core is everything a command needs: the loaded configuration, the
// launcher and, when configured, the Redis-backed usage counters.
type Core struct {
	Config     *config.Config
	Logger     logger.Logger
	Index      *index.MemoryIndex
	Manager    *groups.Manager
	Launcher   *launcher.Launcher
	UsageStore *redisstore.Store // nil when usage statistics are disabled

	redisClient *goredis.Client
	scrapbox    *scrapbox.Client
}

// NewCore resolves the configuration directory, loads config.json through
// the recovery chain and wires the launcher. Only an unusable directory is
// an error; Redis problems disable usage persistence with a warning.
func NewCore(ctx context.Context, cfg *config.Config, log logger.Logger) (*Core, error) {
	store, err := file.New(cfg.ConfigDir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open configuration directory: %w", err)
	}

	memIndex := index.NewMemoryIndex()
	manager := groups.NewManager(store, memIndex, log)
	res := manager.Load(ctx)
	if res.Tier != file.TierPrimary {
		log.Warn("configuration recovered",
			logger.String("tier", string(res.Tier)),
			logger.String("path", store.Path()))
	}
	if res.SaveErr != nil {
		log.Warn("recovered configuration could not be written back",
			logger.Error(res.SaveErr))
	}

	c := &Core{
		Config:   cfg,
		Logger:   log,
		Index:    memIndex,
		Manager:  manager,
		scrapbox: scrapbox.NewClient("https://"+cfg.ScrapboxHost, cfg.FetchTimeout, log),
	}

	if cfg.UsageEnabled() {
		c.connectUsage(ctx)
	} else {
		log.Debug("redis not configured, usage statistics kept in memory only")
	}

	c.Launcher = launcher.New(
		launcher.NewSystemOpener(log),
		usage.NewRecorder(memIndex, c.UsageStore),
		log,
	)
	return c, nil
}

func (c *Core) connectUsage(ctx context.Context) {
	c.Logger.Infof("Connecting to Redis at %s", c.Config.RedisAddr)
	client, err := redis.New(ctx, redis.OptionsFromConfig(c.Config), c.Logger)
	if err != nil {
		c.Logger.Warn("redis unavailable, usage statistics disabled",
			logger.Error(err))
		return
	}
	c.redisClient = client
	c.UsageStore = redisstore.NewStore(client)

	syncer := scheduler.NewUsageSyncer(c.UsageStore, c.Index, c.Logger)
	if err := syncer.Sync(ctx); err != nil {
		c.Logger.Warn("failed to load usage counters from redis",
			logger.Error(err))
	}
}

// NewSource builds a Scrapbox source for pageURL.
func (c *Core) NewSource(pageURL string) (sources.Source, error) {
	src, err := scrapbox.NewSource(pageURL, c.Config.ScrapboxHost, c.scrapbox, c.Logger)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// Sync fetches pageURL and replaces the groups with its content.
func (c *Core) Sync(ctx context.Context, pageURL string) (*sources.Result, error) {
	src, err := c.NewSource(pageURL)
	if err != nil {
		return nil, err
	}
	res, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Manager.ApplySync(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Close releases the Redis connection, if any.
func (c *Core) Close() error {
	if c.redisClient == nil {
		return nil
	}
	return c.redisClient.Close()
}
