package config

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// AppDirName is the directory created under the platform configuration
// directory (on macOS: ~/Library/Application Support).
const AppDirName = "topDoor"

type Config struct {
	ConfigDir       string        // directory holding config.json and config.json.bak
	ListenAddr      string        // ex: "127.0.0.1:7878"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	ScrapboxHost string        // host accepted in page URLs and used for the API
	FetchTimeout time.Duration // timeout for one Scrapbox API call
	SyncInterval time.Duration // periodic refresh of the recorded Scrapbox page (0 = disabled)
	WatchConfig  bool          // reload when config.json is edited by hand

	// Launch rate limiting (per client IP)
	LaunchBurst  int
	LaunchPerMin int

	// Redis (optional, launch statistics)
	RedisAddr           string        // empty => usage statistics disabled
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration // timeout for each ping attempt
	UsagePruneInterval  time.Duration // how often stale counters are removed

	AllowedHosts []string // Host headers accepted (default: 127.0.0.1 and localhost on the listen port)
	AllowedCIDRS []string // restrict API access (default loopback only)
	TrustProxy   bool     // true => trust X-Forwarded-For headers
}

func Load() *Config {
	listenAddr := getenv("TOPDOOR_LISTEN_ADDR", "127.0.0.1:7878")

	cfg := &Config{
		ConfigDir:       getenv("TOPDOOR_CONFIG_DIR", DefaultConfigDir()),
		ListenAddr:      listenAddr,
		ShutdownTimeout: mustDuration("TOPDOOR_SHUTDOWN_TIMEOUT", 5*time.Second),

		LogLevel:  getenv("TOPDOOR_LOG_LEVEL", "info"),
		PrettyLog: mustBool("TOPDOOR_PRETTY_LOG", true),

		ScrapboxHost: getenv("TOPDOOR_SCRAPBOX_HOST", "scrapbox.io"),
		FetchTimeout: mustDuration("TOPDOOR_FETCH_TIMEOUT", 10*time.Second),
		SyncInterval: mustDuration("TOPDOOR_SYNC_INTERVAL", 0),
		WatchConfig:  mustBool("TOPDOOR_WATCH_CONFIG", true),

		LaunchBurst:  getenvInt("TOPDOOR_LAUNCH_BURST", 10),
		LaunchPerMin: getenvInt("TOPDOOR_LAUNCH_PER_MIN", 30),

		RedisAddr:           getenv("TOPDOOR_REDIS_ADDR", ""),
		RedisUser:           getenv("TOPDOOR_REDIS_USERNAME", ""),
		RedisPassword:       getenv("TOPDOOR_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("TOPDOOR_REDIS_DB", 0),
		RedisConnectTimeout: mustDuration("TOPDOOR_REDIS_CONNECT_TIMEOUT", 5*time.Second),
		RedisRetryInterval:  mustDuration("TOPDOOR_REDIS_RETRY_INTERVAL", 500*time.Millisecond),
		RedisMaxWait:        mustDuration("TOPDOOR_REDIS_MAX_WAIT", 2*time.Second),
		RedisPingTimeout:    mustDuration("TOPDOOR_REDIS_PING_TIMEOUT", time.Second),
		UsagePruneInterval:  mustDuration("TOPDOOR_USAGE_PRUNE_INTERVAL", 24*time.Hour),

		AllowedHosts: splitAndTrim(getenv("TOPDOOR_ALLOWED_HOSTS", defaultAllowedHosts(listenAddr))),
		AllowedCIDRS: splitAndTrim(getenv("TOPDOOR_ALLOWED_CIDRS", "127.0.0.1,::1")),
		TrustProxy:   mustBool("TOPDOOR_TRUST_PROXY", false),
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// UsageEnabled reports whether launch statistics should be kept in Redis.
func (c *Config) UsageEnabled() bool {
	return c.RedisAddr != ""
}

// DefaultConfigDir resolves <platform config dir>/topDoor. It returns an
// empty string when no home directory can be determined; the store turns
// that into ErrDirectoryUnavailable.
func DefaultConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return ""
	}
	return filepath.Join(base, AppDirName)
}

// defaultAllowedHosts returns "127.0.0.1:<port>,localhost:<port>" for the
// listen address, so a page served from another name cannot reach the API
// through DNS rebinding.
func defaultAllowedHosts(listenAddr string) string {
	_, port, err := net.SplitHostPort(listenAddr)
	if err != nil || port == "" {
		return "127.0.0.1,localhost"
	}
	return "127.0.0.1:" + port + ",localhost:" + port
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
