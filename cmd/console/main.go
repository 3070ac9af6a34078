package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ranyal-tech/dispatch-frontend/internal/api/handlers"
	"github.com/ranyal-tech/dispatch-frontend/internal/api/routes"
	"github.com/ranyal-tech/dispatch-frontend/internal/availability"
	"github.com/ranyal-tech/dispatch-frontend/internal/config"
	"github.com/ranyal-tech/dispatch-frontend/internal/gateway"
	"github.com/ranyal-tech/dispatch-frontend/internal/geocode"
	"github.com/ranyal-tech/dispatch-frontend/internal/lifecycle"
	"github.com/ranyal-tech/dispatch-frontend/internal/push"
	"github.com/ranyal-tech/dispatch-frontend/internal/reconcile"
	"github.com/ranyal-tech/dispatch-frontend/internal/roster"
	"github.com/ranyal-tech/dispatch-frontend/pkg/cache"
	"github.com/ranyal-tech/dispatch-frontend/pkg/logger"
	"github.com/ranyal-tech/dispatch-frontend/pkg/monitoring"
	"github.com/ranyal-tech/dispatch-frontend/pkg/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Dispatch Console",
		logger.String("env", cfg.Server.Env),
		logger.String("port", cfg.Server.Port),
		logger.String("upstream", cfg.Upstream.BaseURL),
	)

	// Initialize New Relic
	nrApp, err := monitoring.New(monitoring.Config{
		LicenseKey: cfg.NewRelic.LicenseKey,
		AppName:    cfg.NewRelic.AppName,
		Enabled:    cfg.NewRelic.Enabled,
	})
	if err != nil {
		appLogger.Warn("Failed to initialize New Relic", logger.Err(err))
		nrApp, _ = monitoring.New(monitoring.Config{})
	}
	defer nrApp.Shutdown(10 * time.Second)

	// Geocode cache: Redis when enabled, process-local otherwise
	var geocodeCache cache.Store = cache.NewMemoryStore()
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cache.Config{
			Host:        cfg.Redis.Host,
			Port:        cfg.Redis.Port,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			MaxRetries:  cfg.Redis.MaxRetries,
			PoolSize:    cfg.Redis.PoolSize,
			DialTimeout: cfg.Redis.DialTimeout,
			ReadTimeout: cfg.Redis.ReadTimeout,
		})
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", logger.Err(err))
		}
		defer cache.Close(redisClient)
		geocodeCache = cache.NewRedisStore(redisClient)
		appLogger.Info("Connected to Redis successfully")
	}

	// Initialize WebSocket hub
	wsHub := websocket.NewHub(appLogger)
	go wsHub.Run()

	notifier := push.New(wsHub, nrApp)

	// Gateway and state
	gw := gateway.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, appLogger)
	rides := lifecycle.NewStore(gw, notifier, appLogger)
	drivers := roster.NewStore()
	avail := availability.NewController(gw, drivers, notifier, appLogger)
	offers := reconcile.NewManager(cfg.Poll.OfferInterval, gw, rides, nrApp, appLogger)
	refresher := reconcile.NewRefresher(cfg.Poll.RideListInterval, gw, rides, nrApp, appLogger)
	watcher := reconcile.NewWatcher(cfg.Poll.DriverRidesInterval, drivers, gw, offers, nrApp, appLogger)
	geocoder := geocode.New(geocode.Config{
		Enabled:  cfg.Geocoder.Enabled,
		BaseURL:  cfg.Geocoder.BaseURL,
		Timeout:  cfg.Geocoder.Timeout,
		CacheTTL: cfg.Geocoder.CacheTTL,
	}, geocodeCache, appLogger)

	// Background reconciliation loops
	bgCtx, bgCancel := context.WithCancel(context.Background())
	go refresher.Run(bgCtx)
	go watcher.Run(bgCtx)
	go avail.Run(bgCtx, cfg.Poll.DriverResync)

	// Initialize handlers with dependencies
	h := handlers.NewHandlers(gw, rides, drivers, avail, offers, geocoder, cfg.Poll.OfferWindow, appLogger, nrApp, wsHub)

	// Initialize Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	if nrApp.IsEnabled() {
		routes.SetupRoutes(router, h, nrApp.Application)
	} else {
		routes.SetupRoutes(router, h, nil)
	}

	appLogger.Info("Routes configured successfully")

	// Create HTTP server
	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info("Server starting", logger.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", logger.Err(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down console...")

	// Every session gets the notice, whatever topics it follows
	wsHub.Broadcast(websocket.Message{Type: "server_shutdown"})

	// Tear down polling before the server so no loop outlives its owner
	bgCancel()
	offers.StopAll()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.Err(err))
	}

	appLogger.Info("Console stopped gracefully")
}
