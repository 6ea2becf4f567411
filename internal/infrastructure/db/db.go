package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/niklvrr/issuetracker/internal/config"
	"github.com/niklvrr/issuetracker/migrations"
	"go.uber.org/zap"
)

var (
	errDBPathIsEmpty = errors.New("database path is empty")
	errDBInit        = errors.New("database init error")
)

func NewDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	if cfg.URL == "" {
		return nil, errDBPathIsEmpty
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errDBInit, err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errDBInit, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %w", errDBInit, err)
	}

	logger.Info("database connected",
		zap.Int32("max_conns", poolCfg.MaxConns),
		zap.Int32("min_conns", poolCfg.MinConns),
	)
	return pool, nil
}

func newMigrator(dbUrl string) (*migrate.Migrate, error) {
	if dbUrl == "" {
		return nil, errDBPathIsEmpty
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("migration source err: %w", err)
	}

	mg, err := migrate.NewWithSourceInstance("iofs", src, dbUrl)
	if err != nil {
		return nil, fmt.Errorf("migration init err: %w", err)
	}
	return mg, nil
}

// MigrateUp применяет все миграции, снимая dirty-состояние при необходимости
func MigrateUp(dbUrl string, logger *zap.Logger) error {
	mg, err := newMigrator(dbUrl)
	if err != nil {
		return err
	}
	defer mg.Close()

	version, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration version check err: %w", err)
	}

	if dirty {
		logger.Warn("database is in dirty state, forcing version", zap.Uint("version", version))
		if err := mg.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force migration version: %w", err)
		}
		logger.Debug("dirty state cleared, retrying migration")
	}

	if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration run err: %w", err)
	}

	logger.Info("migration run ok")
	return nil
}

func MigrateDown(dbUrl string, logger *zap.Logger) error {
	mg, err := newMigrator(dbUrl)
	if err != nil {
		return err
	}
	defer mg.Close()

	if err := mg.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration rollback err: %w", err)
	}

	logger.Info("migration rollback ok")
	return nil
}
