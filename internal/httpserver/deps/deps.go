package deps

import (
	"time"

	"github.com/MrSnakeDoc/topdoor/internal/groups"
	"github.com/MrSnakeDoc/topdoor/internal/index"
	"github.com/MrSnakeDoc/topdoor/internal/launcher"
	"github.com/MrSnakeDoc/topdoor/internal/logger"
	"github.com/MrSnakeDoc/topdoor/internal/sources"
	redisstore "github.com/MrSnakeDoc/topdoor/internal/store/redis"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time   // for testing, defaults to time.Now
	AllowedHosts  []string           // Host headers allowed to access the server
	AllowedCIDRS  []string           // IPs allowed to access the API (default loopback)
	TrustProxy    bool               // true if running behind a trusted reverse proxy
	Manager       *groups.Manager    // serialised configuration access
	MemoryIndex   *index.MemoryIndex // published snapshot + launch counters
	Launcher      *launcher.Launcher // opens group items through the OS
	UsageStore    *redisstore.Store  // nil when usage statistics are disabled
	NewSource     func(pageURL string) (sources.Source, error)
	ReloadTrigger chan struct{} // Channel to trigger a refresh of the recorded source page
	LaunchBurst   int           // rate limit burst on launch routes
	LaunchPerMin  int           // rate limit refill on launch routes
}
