// Package main provides the resumelens command line tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gorm.io/gorm/logger"

	"resumelens/resume-analyzer/internal/config"
	"resumelens/resume-analyzer/internal/repositories"
	"resumelens/resume-analyzer/internal/services"
)

var rootCmd = &cobra.Command{
	Use:   "resumelens",
	Short: "Resume analyzer command line tool",
	Long:  "resumelens runs resume analyses against the configured model, inspects the analysis history and maintains the similarity index.",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cliDeps holds what every subcommand needs; it is built from the same
// environment as the API server.
type cliDeps struct {
	cfg         *config.Config
	historyRepo repositories.HistoryRepository
	gemini      services.GeminiService
}

func loadDeps() (*cliDeps, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := config.OpenDatabase(cfg.Database.Driver, cfg.GetDatabaseDSN(), logger.Default.LogMode(logger.Silent))
	if err != nil {
		return nil, err
	}
	if err := config.Migrate(db); err != nil {
		return nil, err
	}

	return &cliDeps{
		cfg:         cfg,
		historyRepo: repositories.NewHistoryRepository(db),
		gemini: services.NewGeminiService(
			cfg.Gemini.APIKey,
			cfg.Gemini.Model,
			cfg.Gemini.EmbedModel,
			int32(cfg.Qdrant.VectorSize),
		),
	}, nil
}
