package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// queryExecutor реализуют и pgxpool.Pool, и pgx.Tx
type queryExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type Stores struct {
	issues   *IssueRepository
	users    *UserRepository
	labels   *LabelRepository
	events   *EventRepository
	comments *CommentRepository
	reports  *ReportRepository
}

func NewStores(db queryExecutor, log *zap.Logger) *Stores {
	return &Stores{
		issues:   NewIssueRepository(db, log),
		users:    NewUserRepository(db, log),
		labels:   NewLabelRepository(db, log),
		events:   NewEventRepository(db, log),
		comments: NewCommentRepository(db, log),
		reports:  NewReportRepository(db, log),
	}
}

func (s *Stores) Issues() IssueStore     { return s.issues }
func (s *Stores) Users() UserStore       { return s.users }
func (s *Stores) Labels() LabelStore     { return s.labels }
func (s *Stores) Events() EventStore     { return s.events }
func (s *Stores) Comments() CommentStore { return s.comments }
func (s *Stores) Reports() ReportStore   { return s.reports }

type PgStorage struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func NewPgStorage(pool *pgxpool.Pool, log *zap.Logger) *PgStorage {
	return &PgStorage{
		pool: pool,
		log:  log,
	}
}

func (s *PgStorage) Stores() StoreProvider {
	return NewStores(s.pool, s.log)
}

// WithTx выполняет fn в транзакции. Ошибка, паника или отмена контекста
// приводят к откату, коммит только при nil от fn.
func (s *PgStorage) WithTx(ctx context.Context, fn func(stores StoreProvider) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	// Rollback после Commit ничего не делает
	defer func() {
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			s.log.Warn("transaction rollback failed", zap.Error(rbErr))
		}
	}()

	if err := fn(NewStores(tx, s.log)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
