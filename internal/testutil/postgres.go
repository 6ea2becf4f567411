//go:build integration

// Package testutil поднимает Postgres в testcontainers для интеграционных тестов
package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/niklvrr/issuetracker/internal/infrastructure/db"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

type Postgres struct {
	Container *postgres.PostgresContainer
	URL       string
	Pool      *pgxpool.Pool
}

// StartPostgres запускает контейнер, применяет миграции и открывает пул
func StartPostgres(ctx context.Context) (*Postgres, error) {
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start test container: %w", err)
	}

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := db.MigrateUp(url, zap.NewNop()); err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &Postgres{Container: container, URL: url, Pool: pool}, nil
}

func (p *Postgres) Close(ctx context.Context) error {
	p.Pool.Close()
	return p.Container.Terminate(ctx)
}

// Truncate очищает все таблицы между тестами
func (p *Postgres) Truncate(ctx context.Context) error {
	_, err := p.Pool.Exec(ctx,
		`TRUNCATE issue_events, comments, issue_labels, labels, issues, users RESTART IDENTITY CASCADE`)
	return err
}
