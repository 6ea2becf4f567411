package main

import (
	"fmt"
	"os"

	"github.com/niklvrr/issuetracker/internal/config"
	"github.com/niklvrr/issuetracker/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "issuetracker",
	Short: "Issue tracker HTTP API",
	Long: `Issue tracker HTTP API: issues, labels, comments, users and reports over PostgreSQL.

Configuration is read from the environment and an optional .env file.

Examples:
  issuetracker serve                 # start the HTTP server
  issuetracker migrate up            # apply schema migrations
  issuetracker import issues.csv     # bulk-create issues from CSV`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap общая инициализация конфига и логгера для всех команд
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.NewLogger(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}
