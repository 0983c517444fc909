package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/calldeskhq/reportetl/internal/api"
	"github.com/calldeskhq/reportetl/internal/auth"
	"github.com/calldeskhq/reportetl/internal/cache"
	"github.com/calldeskhq/reportetl/internal/config"
	"github.com/calldeskhq/reportetl/internal/ingest"
	"github.com/calldeskhq/reportetl/internal/metrics"
	"github.com/calldeskhq/reportetl/internal/runner"
	"github.com/calldeskhq/reportetl/internal/scheduler"
	"github.com/calldeskhq/reportetl/internal/storage"
	"github.com/calldeskhq/reportetl/internal/websocket"
	"github.com/calldeskhq/reportetl/pkg/middleware"
)

func main() {
	// Configure logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("log_level", cfg.LogLevel).
		Dur("process_interval", cfg.ProcessInterval).
		Msg("starting reportetl server")

	// Create context for services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create store (DynamoDB or noop depending on DYNAMO_MODE)
	store, err := storage.NewStore(ctx, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}

	// Create WebSocket hub
	hub := websocket.NewHub(log.Logger)
	go hub.Run()

	// Create WebSocket handler
	wsHandler := websocket.NewHandler(hub, cfg, log.Logger)

	// Create payload stage and result cache
	stage := cache.NewPayloadStage()
	results := cache.NewResultCache()

	// Create report receiver
	receiver := ingest.NewReceiver(stage, log.Logger)

	// Create ETL runner
	run := runner.NewRunner(stage, results, store, hub, cfg.Thresholds, log.Logger)

	// Start scheduler unless disabled
	if cfg.ProcessInterval > 0 {
		sched := scheduler.NewScheduler(stage, run, cfg.ProcessInterval, log.Logger)
		go sched.Start(ctx)
	} else {
		log.Info().Msg("scheduler disabled (PROCESS_INTERVAL=0), on-demand processing only")
	}

	// Create API handlers
	processHandler := api.NewProcessHandler(run, log.Logger)
	historyHandler := api.NewHistoryHandler(results, store, log.Logger)
	adminHandler := api.NewAdminHandler(stage, store, log.Logger)

	// Create router
	r := chi.NewRouter()

	// Add middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Register public routes (no auth required)
	r.Get("/health", healthHandler)
	r.Get("/metrics", metrics.Get().Handler())

	// Internal routes (no auth - for the report export forwarder)
	r.Route("/internal", func(r chi.Router) {
		r.Post("/reports", receiver.HandleUpload)
		r.Get("/reports/stats", receiver.GetStats)
	})

	// Add auth middleware for protected routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Get("/ws", wsHandler.ServeHTTP)

		r.Post("/api/days/{date}/process", processHandler.ProcessDay)
		r.Get("/api/days/latest", historyHandler.GetLatest)
		r.Get("/api/days/{date}", historyHandler.GetDay)
		r.Get("/api/agents/{agentId}/history", historyHandler.GetAgentHistory)

		r.Group(func(r chi.Router) {
			r.Use(api.RequireAdmin)
			r.Get("/api/admin/stage", adminHandler.GetStageStatus)
			r.Post("/api/admin/wipe-dynamo", adminHandler.WipeDynamo)
		})
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Msgf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Stop the scheduler
	cancel()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"reportetl"}`)
}
