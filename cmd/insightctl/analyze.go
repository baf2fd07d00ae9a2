package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/BerylCAtieno/resume-insights-api/internal/analyzer"
	"github.com/BerylCAtieno/resume-insights-api/internal/config"
	"github.com/BerylCAtieno/resume-insights-api/internal/db"
	"github.com/BerylCAtieno/resume-insights-api/internal/models"
	"github.com/BerylCAtieno/resume-insights-api/internal/repository"
	"github.com/BerylCAtieno/resume-insights-api/internal/services"
	"github.com/BerylCAtieno/resume-insights-api/internal/utils"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a resume and store its insights",
	Long:  "Extract text from a PDF, DOCX or TXT resume, evaluate it with the configured completion service and store the result.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db") {
		cfg.DatabasePath = databasePath
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	logger := utils.NewLoggerWithWriter(logLevel, os.Stderr)
	ctx := context.Background()

	completer, err := analyzer.NewCompleter(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize completion client: %w", err)
	}
	generator := analyzer.NewGenerator(completer, logger,
		analyzer.WithMaxTokens(cfg.LLMMaxTokens),
		analyzer.WithTemperature(cfg.LLMTemperature))

	database, err := db.NewSQLiteDB(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer database.Close()
	if err := db.RunMigrations(database); err != nil {
		return err
	}

	svc := services.NewService(repository.NewRepository(database), generator, logger,
		services.WithAnalysisTimeout(cfg.AnalysisTimeout))

	rec, err := svc.UploadResume(ctx, &models.UploadRequest{
		File:     data,
		Filename: filepath.Base(args[0]),
	})
	if err != nil {
		return err
	}

	return printJSON(cmd, rec)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
