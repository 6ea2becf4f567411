package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/niklvrr/issuetracker/internal/domain"
	"github.com/niklvrr/issuetracker/internal/infrastructure/models/dto"
	"go.uber.org/zap"
)

const (
	issueColumns = `id, title, description, status, priority, assignee_id, version, created_at, updated_at, resolved_at`

	insertIssueQuery = `
INSERT INTO issues (title, description, status, priority, assignee_id, version, created_at, updated_at)
VALUES ($1, $2, 'open', $3, $4, 1, $5, $5)
RETURNING ` + issueColumns + `;`

	selectIssueQuery = `
SELECT ` + issueColumns + `
FROM issues
WHERE id = $1;`

	// Условное обновление: ноль строк значит, что версию уже кто-то сдвинул
	updateIssueVersionedQuery = `
UPDATE issues
SET title       = $2,
    description = $3,
    status      = $4,
    priority    = $5,
    assignee_id = $6,
    resolved_at = $7,
    updated_at  = $8,
    version     = version + 1
WHERE id = $1 AND version = $9
RETURNING ` + issueColumns + `;`

	// ORDER BY id даёт одинаковый порядок захвата блокировок и исключает дедлоки между пакетами
	lockIssuesQuery = `
SELECT ` + issueColumns + `
FROM issues
WHERE id = ANY($1)
ORDER BY id
FOR UPDATE;`

	applyStatusQuery = `
UPDATE issues
SET status      = $2,
    resolved_at = $3,
    updated_at  = $4,
    version     = version + 1
WHERE id = $1
RETURNING version;`
)

type IssueRepository struct {
	db  queryExecutor
	log *zap.Logger
}

func NewIssueRepository(db queryExecutor, log *zap.Logger) *IssueRepository {
	return &IssueRepository{
		db:  db,
		log: log,
	}
}

func (r *IssueRepository) Create(ctx context.Context, d *dto.CreateIssueDTO) (*domain.Issue, error) {
	r.log.Debug("insert issue",
		zap.String("title", d.Title),
		zap.String("priority", string(d.Priority)),
	)

	issue, err := scanIssue(r.db.QueryRow(ctx, insertIssueQuery,
		d.Title,
		d.Description,
		string(d.Priority),
		d.AssigneeId,
		d.CreatedAt,
	))
	if err != nil {
		r.log.Error("failed to insert issue", zap.Error(err))
		return nil, handleDBError(err)
	}
	return issue, nil
}

func (r *IssueRepository) GetByID(ctx context.Context, id int64) (*domain.Issue, error) {
	issue, err := scanIssue(r.db.QueryRow(ctx, selectIssueQuery, id))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.log.Error("failed to read issue", zap.Int64("issue_id", id), zap.Error(err))
		}
		return nil, handleDBError(err)
	}
	return issue, nil
}

func (r *IssueRepository) UpdateVersioned(ctx context.Context, issue *domain.Issue, expectedVersion int) (*domain.Issue, error) {
	updated, err := scanIssue(r.db.QueryRow(ctx, updateIssueVersionedQuery,
		issue.Id,
		issue.Title,
		issue.Description,
		string(issue.Status),
		string(issue.Priority),
		issue.AssigneeId,
		issue.ResolvedAt,
		issue.UpdatedAt,
		expectedVersion,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.log.Warn("versioned update matched no rows",
				zap.Int64("issue_id", issue.Id),
				zap.Int("expected_version", expectedVersion),
			)
			return nil, ErrStaleVersion
		}
		r.log.Error("failed to update issue", zap.Int64("issue_id", issue.Id), zap.Error(err))
		return nil, handleDBError(err)
	}
	return updated, nil
}

func (r *IssueRepository) LockByIDs(ctx context.Context, ids []int64) ([]*domain.Issue, error) {
	rows, err := r.db.Query(ctx, lockIssuesQuery, ids)
	if err != nil {
		r.log.Error("failed to lock issues", zap.Int64s("issue_ids", ids), zap.Error(err))
		return nil, handleDBError(err)
	}
	defer rows.Close()

	issues := make([]*domain.Issue, 0, len(ids))
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, handleDBError(err)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		r.log.Error("failed to read locked issues", zap.Error(err))
		return nil, handleDBError(err)
	}

	r.log.Debug("issues locked", zap.Int("requested", len(ids)), zap.Int("locked", len(issues)))
	return issues, nil
}

// ApplyStatus отправляет обновления одним батчем; строки должны быть заблокированы вызывающим
func (r *IssueRepository) ApplyStatus(ctx context.Context, issues []*domain.Issue) (int, error) {
	if len(issues) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, issue := range issues {
		batch.Queue(applyStatusQuery, issue.Id, string(issue.Status), issue.ResolvedAt, issue.UpdatedAt)
	}

	br := r.db.SendBatch(ctx, batch)
	updated := 0
	for _, issue := range issues {
		if err := br.QueryRow().Scan(&issue.Version); err != nil {
			_ = br.Close()
			r.log.Error("failed to apply status",
				zap.Int64("issue_id", issue.Id),
				zap.String("status", string(issue.Status)),
				zap.Error(err),
			)
			return updated, handleDBError(err)
		}
		updated++
	}
	if err := br.Close(); err != nil {
		return updated, handleDBError(err)
	}
	return updated, nil
}

func scanIssue(row pgx.Row) (*domain.Issue, error) {
	var (
		issue    domain.Issue
		status   string
		priority string
		resolved *time.Time
	)
	err := row.Scan(
		&issue.Id,
		&issue.Title,
		&issue.Description,
		&status,
		&priority,
		&issue.AssigneeId,
		&issue.Version,
		&issue.CreatedAt,
		&issue.UpdatedAt,
		&resolved,
	)
	if err != nil {
		return nil, err
	}
	issue.Status = domain.Status(status)
	issue.Priority = domain.Priority(priority)
	issue.ResolvedAt = resolved
	return &issue, nil
}
