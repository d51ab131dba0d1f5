package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	api "github.com/Aidin1998/itemsvc/api"
	"github.com/Aidin1998/itemsvc/internal/config"
	"github.com/Aidin1998/itemsvc/internal/items"
	"github.com/Aidin1998/itemsvc/pkg/logger"
	"github.com/Aidin1998/itemsvc/pkg/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Bootstrap logger; the configured level is applied once config is loaded
	zapLogger, level, err := logger.NewLogger(os.Getenv(config.EnvPrefix + "_LOG_LEVEL"))
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	// Load configuration
	loader := config.NewLoader(zapLogger)
	cfg, err := loader.Load()
	if err != nil {
		zapLogger.Fatal("Failed to load configuration", zap.Error(err))
	}
	level.SetLevel(logger.ParseLevel(cfg.Log.Level))
	loader.Watch(func(next *config.Config) {
		level.SetLevel(logger.ParseLevel(next.Log.Level))
	})

	gin.SetMode(cfg.Server.Mode)

	ctx := context.Background()
	shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.Config{
		Tracing: cfg.Tracing.Enabled,
		Metrics: cfg.Tracing.Metrics,
	})
	if err != nil {
		zapLogger.Fatal("Failed to set up telemetry", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	// Create API server
	store := items.NewMemoryStore(zapLogger)
	apiServer, err := api.NewServer(zapLogger, store, api.Options{
		ServiceName:   cfg.Tracing.ServiceName,
		Registry:      registry,
		MetricsPath:   metricsPath,
		AllowOrigins:  cfg.CORS.AllowOrigins,
		CORSMaxAge:    cfg.CORS.MaxAge,
		RateLimit:     cfg.RateLimit.Rate,
		SanitizeNames: cfg.Validation.SanitizeNames,
		Docs:          cfg.Docs.Enabled,
		MaxBodyBytes:  cfg.Server.MaxBodyBytes,
	})
	if err != nil {
		zapLogger.Fatal("Failed to create API server", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      apiServer.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("Server running", zap.String("uri", "http://"+httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start API server", zap.Error(err))
		}
	}()

	// Wait for interrupt to shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Failed to shut down API server", zap.Error(err))
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		zapLogger.Error("Failed to flush telemetry", zap.Error(err))
	}

	zapLogger.Info("Server exited properly")
}
