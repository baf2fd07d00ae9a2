package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerylCAtieno/resume-insights-api/internal/analyzer"
	"github.com/BerylCAtieno/resume-insights-api/internal/config"
	"github.com/BerylCAtieno/resume-insights-api/internal/db"
	"github.com/BerylCAtieno/resume-insights-api/internal/repository"
	"github.com/BerylCAtieno/resume-insights-api/internal/router"
	"github.com/BerylCAtieno/resume-insights-api/internal/services"
	"github.com/BerylCAtieno/resume-insights-api/internal/storage"
	"github.com/BerylCAtieno/resume-insights-api/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	// Initialize database
	database, err := db.NewSQLiteDB(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()

	// Run migrations
	if err := db.RunMigrations(database); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	ctx := context.Background()

	// Completion client
	completer, err := analyzer.NewCompleter(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize completion client", "error", err, "provider", cfg.LLMProvider)
	}
	generator := analyzer.NewGenerator(completer, logger,
		analyzer.WithMaxTokens(cfg.LLMMaxTokens),
		analyzer.WithTemperature(cfg.LLMTemperature))

	opts := []services.Option{services.WithAnalysisTimeout(cfg.AnalysisTimeout)}
	if cfg.ArchiveEnabled {
		archive, err := storage.NewS3Archive(ctx, cfg)
		if err != nil {
			logger.Fatal("Failed to initialize S3 archive", "error", err)
		}
		opts = append(opts, services.WithArchive(archive))
	}

	insightRepo := repository.NewRepository(database)
	insightService := services.NewService(insightRepo, generator, logger, opts...)

	// Setup HTTP router
	handler := router.NewRouter(insightService, logger, cfg.MaxFileSize)

	// Uploads wait on the completion service, so writes get the analysis budget on top.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AnalysisTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "provider", cfg.LLMProvider, "archive", cfg.ArchiveEnabled)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
