package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prohmpiriya/canteen-storefront/internal/di"
	"github.com/prohmpiriya/canteen-storefront/internal/handler"
	"github.com/prohmpiriya/canteen-storefront/internal/middleware"
	"github.com/prohmpiriya/canteen-storefront/pkg/config"
	"github.com/prohmpiriya/canteen-storefront/pkg/logger"
	pkgredis "github.com/prohmpiriya/canteen-storefront/pkg/redis"
	"github.com/prohmpiriya/canteen-storefront/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := &logger.Config{
		Level:       cfg.App.LogLevel,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting canteen storefront...",
		zap.String("version", cfg.App.Version),
		zap.String("api", cfg.API.BaseURL),
	)

	ctx := context.Background()

	// Initialize tracing
	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
	}); err != nil {
		appLog.Warn("Tracing disabled", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = telemetry.Shutdown(shutdownCtx)
	}()

	// Redis carries the session for the redis backend and guards checkout
	// against double submits. Only the session backend makes it mandatory.
	var redisClient *pkgredis.Client
	if cfg.Session.Backend == config.SessionBackendRedis || cfg.Idem.Enabled {
		redisClient, err = pkgredis.NewClient(ctx, di.RedisConfig(cfg))
		switch {
		case err == nil:
			defer redisClient.Close()
			appLog.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
		case cfg.Session.Backend == config.SessionBackendRedis:
			appLog.Fatal("Redis connection failed", zap.Error(err))
		default:
			appLog.Warn("Redis unavailable, checkout idempotency disabled", zap.Error(err))
			redisClient = nil
		}
	}

	// Build dependency injection container
	container, err := di.NewContainer(&di.ContainerConfig{
		Config: cfg,
		Redis:  redisClient,
		Logger: appLog,
	})
	if err != nil {
		appLog.Fatal("Failed to build container", zap.Error(err))
	}

	// Restore the persisted session in the background. Guarded views render
	// the loading placeholder until it finishes.
	go func() {
		if err := container.Session.Hydrate(ctx); err != nil {
			appLog.Warn("Session restore failed, starting signed out", zap.Error(err))
			return
		}
		appLog.Info("Session restored",
			zap.Bool("logged_in", container.Session.IsLoggedIn()),
			zap.String("role", container.Session.Role().String()),
		)
	}()

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.Recovery(appLog),
		middleware.RequestID(),
		telemetry.TracingMiddleware(cfg.OTel.ServiceName, "/health", "/ready"),
		middleware.Logger(appLog),
		middleware.CORSWithConfig(corsConfig(cfg)),
	)
	handler.RegisterRoutes(router, container.Handlers, container.RouteConfig())

	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in goroutine
	go func() {
		appLog.Info(fmt.Sprintf("Storefront listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Server forced to shutdown", zap.Error(err))
	}

	appLog.Info("Server exited gracefully")
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	if len(cfg.Server.AllowOrigins) > 0 {
		cors.AllowOrigins = cfg.Server.AllowOrigins
	}
	return cors
}
