package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/content-graph-api/internal/api"
	"github.com/content-graph-api/internal/config"
	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/repository"
	"github.com/content-graph-api/internal/service"
	"github.com/content-graph-api/pkg/logger"
	"github.com/rs/zerolog"
)

func main() {
	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting Content Graph API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}
	if err := db.RunMigrations(migrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	repos := repository.New(db)

	// Initialize services
	services := service.NewServices(db, db, repos, cfg, log)

	// The expiry sweep is externally triggered via the API; the in-process
	// ticker is an optional convenience for deployments without a scheduler.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	if cfg.Artifact.SweepInterval > 0 {
		go runSweepLoop(sweepCtx, services, cfg, log)
		log.Info().Dur("interval", cfg.Artifact.SweepInterval).Msg("Artifact sweep loop started")
	}

	// Initialize router
	router := api.NewRouter(services, repos, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}

// runSweepLoop invokes the expiry sweep on a fixed interval until ctx is
// cancelled. Each tick is one bounded batch; a backlog larger than the batch
// size drains over successive ticks.
func runSweepLoop(ctx context.Context, services *service.Services, cfg *config.Config, log zerolog.Logger) {
	ticker := time.NewTicker(cfg.Artifact.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Artifact sweep loop stopping")
			return
		case <-ticker.C:
			archived, err := services.Artifact.SweepExpired(ctx, cfg.Artifact.SweepBatchSize)
			if err != nil {
				log.Error().Err(err).Msg("Artifact sweep failed")
				continue
			}
			if len(archived) > 0 {
				log.Info().Int("archived", len(archived)).Msg("Artifact sweep tick completed")
			}
		}
	}
}
