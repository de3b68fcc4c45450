package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/JMcKesey/black-scholes-visualizer/internal/config"
	"github.com/JMcKesey/black-scholes-visualizer/internal/server"
	"github.com/JMcKesey/black-scholes-visualizer/internal/ws"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Local overrides from .env, if present
	_ = godotenv.Load()

	// Setup logger
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	// Load config
	cfg, err := config.LoadServerConfig()
	if err != nil {
		logger.Error("failed to load config", zap.Error(err))
		return 1
	}

	logger.Info("configuration loaded",
		zap.String("port", cfg.Port),
		zap.Int("maxSamples", cfg.MaxSamples),
		zap.Int("rateLimitPerSec", cfg.RateLimitPerSec),
		zap.Bool("wsEnabled", cfg.WSEnabled),
	)

	// Create server
	srv := server.NewServer(cfg, logger)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// WebSocket scenario channel (optional)
	var wsHandler http.HandlerFunc
	if cfg.WSEnabled {
		encoder, err := ws.NewEncoder(cfg.WSCompressMinBytes)
		if err != nil {
			logger.Error("failed to create ws encoder", zap.Error(err))
			return 1
		}

		hub := ws.NewHub(logger, encoder, cfg.MaxSamples)
		go hub.Run(ctx)
		wsHandler = hub.HandleScenarioWS

		logger.Info("WebSocket scenario channel enabled",
			zap.Int("compressMinBytes", cfg.WSCompressMinBytes),
		)
	}

	// Create router
	router, err := server.NewRouter(srv, wsHandler, logger)
	if err != nil {
		logger.Error("failed to create router", zap.Error(err))
		return 1
	}

	// Setup HTTP server
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Cancel context to stop WebSocket components
	cancel()

	// Graceful HTTP server shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return 1
	}

	logger.Info("server stopped")
	return 0
}
