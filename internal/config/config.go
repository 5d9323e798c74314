package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenPort      string        // ex: ":8686"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	DataFile        string // path of the local persisted record
	SeedFile        string // optional seed workspaces/bins yaml (empty = built-in seeds)
	KeepDoneHistory bool   // retain unposted done records instead of discarding them

	// Sync timing
	SyncDebounce time.Duration // quiet period before a push (default: 2.5s)
	SyncMaxWait  time.Duration // ceiling: push at least this often while dirty (default: 10s)
	SyncWatchdog time.Duration // safety-net flush interval (default: 60s)
	PollInterval time.Duration // remote change poll interval (default: 30s)
	AutoSync     bool          // pull polling enabled at boot (default: true)

	// Remote mirror (redis)
	RedisAddr           string        // required: mirror endpoint
	RedisUser           string        // optional
	RedisPassword       string        // required: mirror access key
	RedisDB             int           // redis DB number
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisPoolSize       int           // connection pool size
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries (grows exponentially)
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration // timeout per ping attempt
	RedisWarnThreshold  int           // warn after this many attempts
}

func Load() *Config {
	// Best effort: a missing .env just means the environment is already set.
	_ = godotenv.Load()

	cfg := &Config{
		ListenPort:      getenv("PLANLOOP_LISTEN_PORT", "127.0.0.1:8686"),
		ShutdownTimeout: mustDuration("PLANLOOP_SHUTDOWN_TIMEOUT", 5*time.Second),

		LogLevel:  getenv("PLANLOOP_LOG_LEVEL", "info"),
		PrettyLog: mustBool("PLANLOOP_PRETTY_LOG", true),

		DataFile:        getenv("PLANLOOP_DATA_FILE", "planloop.json"),
		SeedFile:        getenv("PLANLOOP_SEED_FILE", ""),
		KeepDoneHistory: mustBool("PLANLOOP_KEEP_DONE_HISTORY", false),

		SyncDebounce: mustDuration("PLANLOOP_SYNC_DEBOUNCE", 2500*time.Millisecond),
		SyncMaxWait:  mustDuration("PLANLOOP_SYNC_MAX_WAIT", 10*time.Second),
		SyncWatchdog: mustDuration("PLANLOOP_SYNC_WATCHDOG", 60*time.Second),
		PollInterval: mustDuration("PLANLOOP_POLL_INTERVAL", 30*time.Second),
		AutoSync:     mustBool("PLANLOOP_AUTO_SYNC", true),

		// The mirror endpoint and access key must be present: silently
		// degrading to local-only would hide a dead backup path.
		RedisAddr:           requireEnv("PLANLOOP_REDIS_ADDR"),
		RedisUser:           getenv("PLANLOOP_REDIS_USERNAME", "default"),
		RedisPassword:       requireEnv("PLANLOOP_REDIS_PASSWORD"),
		RedisDB:             getenvInt("PLANLOOP_REDIS_DB", 0),
		RedisDT:             mustDuration("PLANLOOP_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("PLANLOOP_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("PLANLOOP_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:       getenvInt("PLANLOOP_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("PLANLOOP_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("PLANLOOP_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("PLANLOOP_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("PLANLOOP_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisWarnThreshold:  getenvInt("PLANLOOP_REDIS_WARN_THRESHOLD", 3),
	}

	if cfg.SyncDebounce > cfg.SyncMaxWait {
		panic(fmt.Sprintf("❌ FATAL: PLANLOOP_SYNC_DEBOUNCE (%v) must not exceed PLANLOOP_SYNC_MAX_WAIT (%v)",
			cfg.SyncDebounce, cfg.SyncMaxWait))
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
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
