package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"tenant-exit-portal/config"
	"tenant-exit-portal/internal/api"
	"tenant-exit-portal/internal/apiclient"
	"tenant-exit-portal/internal/db"
	"tenant-exit-portal/internal/logging"
	"tenant-exit-portal/internal/notification"
	"tenant-exit-portal/internal/session"
	"tenant-exit-portal/internal/store"
	"tenant-exit-portal/internal/view"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration from %s: %v\n", configPath, err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Info("configuration loaded", zap.String("path", configPath))

	// Initialize database
	gormDB, err := db.Init(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	appStore := store.NewGormStore(gormDB)
	logger.Info("journal database initialized", zap.Bool("sqlite", db.IsSQLite(cfg.Database.DSN)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	secret := []byte(cfg.Server.SessionSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			logger.Fatal("failed to generate session secret", zap.Error(err))
		}
		logger.Warn("no session secret configured, using a random one; sessions end on restart")
	}

	deps := api.Deps{
		Store:   appStore,
		Tracker: view.NewTracker(cfg.Server.ViewTTL),
		Cache:   cache.New(cfg.Server.CacheTTL, 2*cfg.Server.CacheTTL),
		Cookies: session.Cookies{Secret: secret, Secure: cfg.Server.SecureCookies},
		Logger:  logger,
	}

	if cfg.Push.Enabled {
		if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
			logger.Fatal("push is enabled but VAPID keys are not configured")
		}
		webpushOptions := &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize, appStore, webpushOptions, logger)
		pool.Start(ctx)
		deps.WebPush = webpushOptions
		deps.Notifier = pool
		logger.Info("web push enabled", zap.Int("workers", cfg.WorkerPool.Size))
	}

	client, err := apiclient.New(&cfg.Upstream, logger)
	if err != nil {
		logger.Fatal("failed to create upstream client", zap.Error(err))
	}
	deps.Client = client

	handler := api.NewHandler(deps)
	controller := session.NewController(client, deps.Cookies, logger)
	router := api.NewRouter(handler, controller, api.RouterOptions{
		RateLimit: rate.Limit(cfg.Server.RateLimitPerSec),
		Burst:     cfg.Server.RateLimitBurst,
		CacheTTL:  cfg.Server.CacheTTL,
	}, logger)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("HTTP server starting",
			zap.Int("port", cfg.Server.Port),
			zap.String("upstream", cfg.Upstream.BaseURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server ListenAndServe", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info("shutdown signal received, stopping services")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("HTTP server Shutdown", zap.Error(err))
	}

	logger.Info("server gracefully stopped")
}
