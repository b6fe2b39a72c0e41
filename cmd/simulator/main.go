package main

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pizza-nz/backend-simulator/internal/config"
	"github.com/pizza-nz/backend-simulator/internal/events"
	"github.com/pizza-nz/backend-simulator/internal/intercept"
	"github.com/pizza-nz/backend-simulator/internal/logger"
	"github.com/pizza-nz/backend-simulator/internal/middleware"
	"github.com/pizza-nz/backend-simulator/internal/simulator"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	// Parse the passthrough upstream, if any
	var upstream *url.URL
	if cfg.Upstream.URL != "" {
		upstream, err = url.Parse(cfg.Upstream.URL)
		if err != nil {
			zlog.Fatal("invalid upstream URL", zap.Error(err))
		}
	}

	// Build the simulator instance for this run
	sim, err := simulator.New(simulator.Config{
		Users:       cfg.Users,
		TokenSecret: cfg.Token.Secret,
	})
	if err != nil {
		zlog.Fatal("failed to build simulator", zap.Error(err))
	}

	// Initialize the observer event hub
	hub := events.NewHub()
	go hub.Run()

	boundary := intercept.New(sim, upstream, hub, zlog)

	mux := http.NewServeMux()
	mux.Handle("/ws", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := events.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			// The upgrader has already written the error to the response
			return
		}
		events.ServeWs(hub, conn, zlog)
	}))
	mux.Handle("/", middleware.Logger(zlog)(boundary))

	// Create HTTP server
	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: mux,
	}

	// Start server in a goroutine
	go func() {
		zlog.Info("simulator starting", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down simulator")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := server.Shutdown(ctx); err != nil {
		zlog.Fatal("server forced to shutdown", zap.Error(err))
	}

	zlog.Info("simulator exited properly")
}
