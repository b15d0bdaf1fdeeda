package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/wayfare/internal/config"
	"github.com/MrSnakeDoc/wayfare/internal/httpserver"
	"github.com/MrSnakeDoc/wayfare/internal/httpserver/deps"
	"github.com/MrSnakeDoc/wayfare/internal/httpserver/mw"
	"github.com/MrSnakeDoc/wayfare/internal/index"
	"github.com/MrSnakeDoc/wayfare/internal/logger"
	"github.com/MrSnakeDoc/wayfare/internal/page"
	"github.com/MrSnakeDoc/wayfare/internal/recent"
	"github.com/MrSnakeDoc/wayfare/internal/redis"
	"github.com/MrSnakeDoc/wayfare/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/wayfare/internal/store/redis"
	"github.com/MrSnakeDoc/wayfare/internal/version"
	"github.com/MrSnakeDoc/wayfare/internal/widget"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	memIndex    *index.MemoryIndex
	syncer      *scheduler.RedisSyncer
	reloader    *scheduler.CatalogReloader
	gc          *scheduler.GarbageCollector
}

func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	memIndex := index.NewMemoryIndex()

	// Redis is optional. When configured it must answer at startup.
	var (
		redisClient *goredis.Client
		store       *redisstore.Store
		snapshots   scheduler.SnapshotStore
		syncer      *scheduler.RedisSyncer
	)
	if cfg.RedisEnabled() {
		client, err := redis.Connect(context.Background(), redis.OptionsFromConfig(cfg), loggerClient)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		loggerClient.Info("Redis initialized successfully")

		redisClient = client
		store = redisstore.NewStore(client, redisstore.DefaultBreakerOptions(), loggerClient)
		snapshots = store
		syncer = scheduler.NewRedisSyncer(store, memIndex, loggerClient)

		// Seed the index with the last snapshot so pages can be served
		// even if the catalog file is briefly unreadable.
		if err := syncer.SyncTours(context.Background()); err != nil {
			loggerClient.Warn("failed to sync tours from redis on startup, will load from catalog",
				logger.Error(err))
		}
	} else {
		loggerClient.Info("redis not configured, popularity is kept in memory only")
	}

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewCatalogReloader(
		cfg.CatalogFile,
		snapshots,
		memIndex,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	gc := scheduler.NewGarbageCollector(
		snapshots,
		memIndex,
		loggerClient,
		cfg.TrimInterval,
		cfg.GCThreshold,
		cfg.PopularKeep,
	)

	vendors := widget.Vendors{
		Activity: widget.Vendor{
			ID:        "activity",
			ScriptURL: cfg.ActivityVendorScript,
			Pattern:   cfg.ActivityVendorMatch,
		},
		Booking: widget.Vendor{
			ID:        "booking",
			ScriptURL: cfg.BookingVendorScript,
			Pattern:   cfg.BookingVendorMatch,
		},
		FrameURL: cfg.BookingFrameURL,
		Timing: widget.Timing{
			InitialDelay: cfg.WidgetInitialDelay,
			PollInterval: cfg.WidgetPollInterval,
			MaxAttempts:  cfg.WidgetMaxAttempts,
		},
	}

	recentStore := recent.NewStore(recent.Options{
		Capacity: cfg.RecentCapacity,
		MaxAge:   cfg.RecentMaxAge,
		Secure:   cfg.CookieSecure,
	}, loggerClient.Named("recent"))

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		CatalogFile:   cfg.CatalogFile,
		Index:         memIndex,
		Store:         store,
		Recent:        recentStore,
		Pages:         page.NewBuilder(vendors, loggerClient.Named("widget")),
		ReloadTrigger: reloadTrigger,
		RateLimit: mw.RateLimitConfig{
			Burst:             cfg.RateLimitBurst,
			RefillPerIPPerMin: cfg.RateLimitPerMin,
			MaxEntries:        10000,
		},
		PopularLimit:   cfg.PopularLimit,
		SearchLimit:    cfg.SearchLimit,
		SearchCacheTTL: cfg.SearchCacheTTL,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		memIndex:    memIndex,
		syncer:      syncer,
		reloader:    reloader,
		gc:          gc,
	}, nil
}

func (a *App) Run() error {
	defer func() { _ = a.logger.Sync() }()

	a.logger.Infof("🚀 Starting %s on %s", version.String(), a.cfg.ListenPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start catalog reloader (loads tours and starts periodic refresh)
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start catalog reloader: %w", err)
	}
	a.logger.Info("catalog reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval),
		logger.Int("tours", a.memIndex.Count()))

	// Restore view counts once the catalog tours are indexed
	if a.syncer != nil {
		if err := a.syncer.SyncViews(ctx); err != nil {
			a.logger.Warn("failed to restore view counts from redis", logger.Error(err))
		}
	}

	if err := a.gc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start garbage collector: %w", err)
	}
	a.logger.Info("garbage collector started",
		logger.Duration("interval", a.cfg.TrimInterval))

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

	a.reloader.Stop()
	a.gc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ wayfare stopped cleanly")
	return nil
}
