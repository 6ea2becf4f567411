package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/niklvrr/issuetracker/internal/infrastructure/db"
	"github.com/niklvrr/issuetracker/internal/infrastructure/repository"
	"github.com/niklvrr/issuetracker/internal/transport/dto/request"
	"github.com/niklvrr/issuetracker/internal/usecase/service"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Bulk-create issues from a CSV file",
	Long: `Import issues from a CSV file with a header row.

Columns (case-insensitive): title, description, priority, assignee_id.
title and priority are required. Every row is committed on its own,
failed rows are reported in the summary and do not stop the import.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ctx := cmd.Context()
	pool, err := db.NewDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	importer := service.NewImportService(repository.NewPgStorage(pool, log), service.SystemClock, log)
	summary, err := importer.Import(ctx, &request.ImportIssuesRequest{
		Filename: filepath.Base(path),
		Body:     f,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
