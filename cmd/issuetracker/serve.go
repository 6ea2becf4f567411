package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/niklvrr/issuetracker/internal/infrastructure/db"
	"github.com/niklvrr/issuetracker/internal/infrastructure/repository"
	"github.com/niklvrr/issuetracker/internal/transport"
	"github.com/niklvrr/issuetracker/internal/transport/handler"
	"github.com/niklvrr/issuetracker/internal/usecase/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply migrations on startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !skipMigrations {
		if err := db.MigrateUp(cfg.Database.URL, log); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := db.NewDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	// Слои
	storage := repository.NewPgStorage(pool, log)
	clock := service.SystemClock

	issueService := service.NewIssueService(storage, clock, log)
	labelService := service.NewLabelService(storage, clock, log)
	importService := service.NewImportService(storage, clock, log)
	commentService := service.NewCommentService(storage, clock, log)
	userService := service.NewUserService(storage, log)
	reportService := service.NewReportService(storage, log)

	router := transport.NewRouter(transport.Handlers{
		Issues:   handler.NewIssueHandler(issueService, labelService, importService, cfg.Import.MaxUploadBytes, log),
		Labels:   handler.NewLabelHandler(labelService, log),
		Comments: handler.NewCommentHandler(commentService, log),
		Users:    handler.NewUserHandler(userService, log),
		Reports:  handler.NewReportHandler(reportService, log),
		Health:   handler.NewHealthHandler(pool, log),
	}, cfg.HTTP.RequestTimeout, log)

	server := transport.NewServer(cfg.App.Port, cfg.HTTP, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
