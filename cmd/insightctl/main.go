// Package main provides insightctl, a command line client for the local
// resume insight store.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/BerylCAtieno/resume-insights-api/internal/db"
	"github.com/BerylCAtieno/resume-insights-api/internal/repository"
	"github.com/BerylCAtieno/resume-insights-api/internal/services"
	"github.com/BerylCAtieno/resume-insights-api/internal/utils"
)

var rootCmd = &cobra.Command{
	Use:           "insightctl",
	Short:         "Resume insight pipeline CLI",
	Long:          "insightctl analyzes resumes and queries the insight store without running the HTTP server.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	databasePath string
	logLevel     string
)

func init() {
	defaultDB := os.Getenv("DATABASE_PATH")
	if defaultDB == "" {
		defaultDB = "data/insights.db"
	}

	rootCmd.PersistentFlags().StringVar(&databasePath, "db", defaultDB, "Path to the SQLite insight store")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "error", "Log level (debug, info, warn, error)")
}

// openReadOnlyService opens the store for commands that never call the
// completion service.
func openReadOnlyService() (services.InsightService, func(), error) {
	logger := utils.NewLoggerWithWriter(logLevel, os.Stderr)

	database, err := db.NewSQLiteDB(databasePath)
	if err != nil {
		return nil, nil, err
	}
	if err := db.RunMigrations(database); err != nil {
		database.Close()
		return nil, nil, err
	}

	svc := services.NewService(repository.NewRepository(database), nil, logger)
	return svc, func() { database.Close() }, nil
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
