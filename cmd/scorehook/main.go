package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/config"
	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/crmclient"
	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/handlers"
	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/logging"
	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/orchestrator"
	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/server"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logging
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format).With(logging.Service("scorehook"))
	logging.SetDefault(logger)

	slog.Info("Starting scorehook service",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Logging.Level),
		slog.String("log_format", cfg.Logging.Format),
	)
	if *configPath != "" {
		slog.Info("Loaded configuration", slog.String("config_path", *configPath))
	}
	slog.Info("CRM connection configured",
		slog.String("crm_base_url", cfg.CRM.BaseURL),
		slog.Duration("crm_timeout", cfg.CRM.Timeout),
		slog.Duration("scoring_delay", cfg.Scoring.Delay),
	)

	// Initialize the CRM client and the async update orchestrator
	crm := crmclient.New(crmclient.Config{
		BaseURL:  cfg.CRM.BaseURL,
		Username: cfg.CRM.Username,
		Password: cfg.CRM.Password,
		Timeout:  cfg.CRM.Timeout,
	})

	orch := orchestrator.New(crm, logger, orchestrator.Config{Delay: cfg.Scoring.Delay})

	// Initialize HTTP handlers
	handler := handlers.NewWebhookHandler(orch, logger)
	router := server.NewRouter(handler, cfg.CORS.AllowedOrigins)

	// Create server with config values
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("scorehook listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Deferred updates are best effort, but tasks already accepted get one
	// delay cycle plus headroom to reach the CRM before the process exits.
	waitForTasks(orch, cfg.Scoring.Delay+5*time.Second)

	log.Println("Server stopped")
}

func waitForTasks(orch *orchestrator.Orchestrator, limit time.Duration) {
	if inFlight := orch.InFlight(); inFlight > 0 {
		slog.Info("Waiting for in-flight update tasks", slog.Int64("in_flight", inFlight))
	}

	done := make(chan struct{})
	go func() {
		orch.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(limit):
		slog.Warn("Shutdown window elapsed with update tasks still in flight",
			slog.Int64("in_flight", orch.InFlight()))
	}
}
