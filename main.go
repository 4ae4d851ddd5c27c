package main

import (
	"context"
	"errors"
	"io/fs"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/username/volumebets/backend/src/config"
	"github.com/username/volumebets/backend/src/handlers"
	"github.com/username/volumebets/backend/src/logger"
	"github.com/username/volumebets/backend/src/parsers/betsheet"
	"github.com/username/volumebets/backend/src/processors"
	"github.com/username/volumebets/backend/src/services"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Volumebets backend server starting...")

	logger.L.Info("Initializing report cache...", "expiry", config.Cfg.CacheExpiry, "cleanupInterval", config.Cfg.CacheCleanupInterval)
	reportCache := cache.New(config.Cfg.CacheExpiry, config.Cfg.CacheCleanupInterval)

	logger.L.Info("Initializing services and handlers...")
	analysisService := services.NewAnalysisService(
		betsheet.NewParser(),
		processors.NewGroupProcessor(),
		processors.NewEquityProcessor(),
		processors.NewAuditProcessor(),
		processors.NewSummaryProcessor(),
		reportCache,
		config.Cfg.CacheExpiry,
	)

	if config.Cfg.DefaultDataPath != "" {
		info, err := analysisService.LoadDefault(config.Cfg.DefaultDataPath)
		switch {
		case err == nil:
			logger.L.Info("Default dataset preloaded", "datasetID", info.ID, "path", config.Cfg.DefaultDataPath, "records", info.Bets)
		case errors.Is(err, fs.ErrNotExist):
			logger.L.Info("No default dataset found, skipping preload", "path", config.Cfg.DefaultDataPath)
		default:
			logger.L.Error("Failed to preload default dataset", "path", config.Cfg.DefaultDataPath, "error", err)
		}
	}

	metrics := handlers.NewMetrics()
	datasetHandler := handlers.NewDatasetHandler(analysisService, config.Cfg.MaxUploadSizeBytes, metrics)

	logger.L.Info("Configuring routes...")
	router := handlers.NewRouter(datasetHandler, metrics, handlers.RouterConfig{
		AllowedOrigins: config.Cfg.AllowedOrigins,
		RateLimitRPS:   config.Cfg.RateLimitRPS,
		RateLimitBurst: config.Cfg.RateLimitBurst,
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.L.Info("Server starting", "address", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L.Error("Failed to start server", "error", err)
			stdlog.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.L.Info("Shutdown signal received, draining connections...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L.Error("Graceful shutdown failed", "error", err)
		return
	}
	logger.L.Info("Server stopped gracefully.")
}
