package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/planloop/planloop/internal/backup"
	"github.com/planloop/planloop/internal/config"
	"github.com/planloop/planloop/internal/httpserver"
	"github.com/planloop/planloop/internal/httpserver/deps"
	"github.com/planloop/planloop/internal/logger"
	"github.com/planloop/planloop/internal/mirror"
	"github.com/planloop/planloop/internal/persist"
	"github.com/planloop/planloop/internal/redisconn"
	"github.com/planloop/planloop/internal/sources/seeds"
	"github.com/planloop/planloop/internal/store"
	"github.com/planloop/planloop/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	store       *store.Store
	sync        *backup.Adapter
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize the mirror connection early - fail fast if unavailable
	loggerClient.Infof("Connecting to mirror store at %s", cfg.RedisAddr)
	redisClient, err := redisconn.New(redisconn.Options{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		DB:             cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to mirror store: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Mirror store connection initialized")

	// Seed workspaces and bins, from file when configured.
	seedWorkspaces := seeds.DefaultWorkspaces()
	seedBins := seeds.DefaultBins()
	if cfg.SeedFile != "" {
		ws, bins, err := seeds.NewLoader(cfg.SeedFile).Load()
		if err != nil {
			loggerClient.Errorf("Failed to load seed file %s: %v", cfg.SeedFile, err)
			os.Exit(1)
		}
		seedWorkspaces, seedBins = ws, bins
		loggerClient.Info("seed file loaded",
			logger.String("file", cfg.SeedFile),
			logger.Int("workspaces", len(seedWorkspaces)),
			logger.Int("bins", len(seedBins)))
	}

	local := persist.New(cfg.DataFile, seedWorkspaces, seedBins, loggerClient)

	st := store.New(local.Load(), store.Options{
		Persist:         local,
		KeepDoneHistory: cfg.KeepDoneHistory,
		Defaults:        local.Defaults,
	}, loggerClient)

	syncAdapter := backup.New(st, mirror.NewClient(redisClient), local, backup.Options{
		Debounce:     cfg.SyncDebounce,
		MaxWait:      cfg.SyncMaxWait,
		Watchdog:     cfg.SyncWatchdog,
		PollInterval: cfg.PollInterval,
		AutoSync:     cfg.AutoSync,
	}, loggerClient)

	d := deps.Deps{
		Logger:      loggerClient,
		StartTime:   time.Now(),
		Version:     version.Version,
		Commit:      version.Commit,
		BuildDate:   version.BuildDate,
		GoVersion:   version.GoVersion,
		RedisClient: redisClient,
		Store:       st,
		Local:       local,
		Sync:        syncAdapter,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		store:       st,
		sync:        syncAdapter,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Planloop v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Planloop %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Boot the sync adapter (remote restore + push/pull scheduling)
	a.sync.Start(ctx)
	a.logger.Info("sync adapter started",
		logger.Duration("debounce", a.cfg.SyncDebounce),
		logger.Duration("max_wait", a.cfg.SyncMaxWait),
		logger.Duration("poll_interval", a.cfg.PollInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	// Final backup push before the connection goes away.
	a.sync.Close(shutdownCtx)

	// Flush any pending local write.
	a.store.FlushPersist()

	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close mirror connection: %v", err)
		} else {
			a.logger.Info("✅ Mirror connection closed cleanly")
		}
	}

	a.logger.Info("✅ Planloop stopped cleanly")
	return nil
}
