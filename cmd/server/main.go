package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"satinsights-backend/internal/config"
	"satinsights-backend/internal/database"
	"satinsights-backend/internal/handlers"
	"satinsights-backend/internal/middleware"
	"satinsights-backend/internal/observability"
	"satinsights-backend/internal/repository"
	"satinsights-backend/internal/router"
	"satinsights-backend/internal/services"
	"satinsights-backend/internal/websocket"
)

func main() {
	log := observability.Logger()
	log.Info("🚀 Starting Satellite Insights Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg, err := config.Load()
	if err != nil {
		log.Error("✗ Configuration invalid", "error", err)
		os.Exit(1)
	}
	log = observability.Init(cfg.LogLevel)
	log.Info("✓ Environment variables loaded", "env", cfg.Env)

	// ──── Step 2: Initialize Session Storage ────
	var (
		sessions     services.SessionStore
		redisClients *database.RedisClients
	)
	if cfg.RedisURL != "" {
		redisClients, err = database.NewRedisClients(cfg.RedisURL)
		if err != nil {
			log.Error("✗ Redis connection failed", "error", err)
			os.Exit(1)
		}
		defer redisClients.Close()
		sessions = repository.NewRedisSessionStore(redisClients.Sessions, cfg.SessionTTL)
		log.Info("✓ Redis connected, sessions stored in Redis")
	} else {
		memStore := repository.NewMemorySessionStore(cfg.SessionTTL)
		memStore.StartSweeper(time.Minute)
		defer memStore.Close()
		sessions = memStore
		log.Info("✓ Sessions stored in memory")
	}

	// ──── Step 3: Initialize Model Client ────
	modelClient, err := services.NewModelClient(context.Background(), cfg)
	if err != nil {
		log.Error("✗ Model client initialization failed", "error", err)
		os.Exit(1)
	}
	if closer, ok := modelClient.(interface{ Close() error }); ok {
		defer closer.Close()
	}
	log.Info("✓ Model client initialized", "provider", cfg.ModelProvider, "model", cfg.ModelName)

	// ──── Step 4: Initialize Services ────
	sessionAuth, err := middleware.NewSessionAuth(cfg.SessionSecret)
	if err != nil {
		log.Error("✗ Session auth initialization failed", "error", err)
		os.Exit(1)
	}
	if cfg.SessionSecret == "" {
		log.Warn("SESSION_SECRET not set, using a per-process secret")
	}

	var lockClient, pubsubClient *redis.Client
	if redisClients != nil {
		lockClient, pubsubClient = redisClients.Sessions, redisClients.PubSub
	}
	// The holder refreshes the lock while its call runs; the TTL only
	// matters when a replica dies mid-call.
	lockTTL := 10 * time.Minute
	if cfg.RequestTimeout > 0 {
		lockTTL = cfg.RequestTimeout + time.Minute
	}
	guard := middleware.NewInFlightGuard(lockClient, lockTTL)
	wsHub := websocket.NewHub(pubsubClient, sessionAuth)
	insights := services.NewInsightsService(modelClient, sessions, wsHub, cfg.ModelMaxTokens)

	// ──── Step 5: Initialize Handlers ────
	sessionHandler := handlers.NewSessionHandler(sessions, sessionAuth, guard, wsHub)
	chatHandler := handlers.NewChatHandler(sessions, insights)
	satelliteHandler := handlers.NewSatelliteHandler(sessions, insights, cfg.UploadMaxBytes)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		sessionAuth,
		guard,
		sessionHandler,
		chatHandler,
		satelliteHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 30 * time.Second,
		// Model replies can take minutes; writes are bounded by the call itself.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Info(fmt.Sprintf("✓ Satellite Insights Backend ready on http://localhost:%s", cfg.Port))
	log.Info(fmt.Sprintf("  API: http://localhost:%s/api/v1", cfg.Port))
	log.Info(fmt.Sprintf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port))

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Error("Server error", "error", err)
		os.Exit(1)
	}
}
