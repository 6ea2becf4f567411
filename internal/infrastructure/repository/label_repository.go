package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/niklvrr/issuetracker/internal/domain"
	"github.com/niklvrr/issuetracker/internal/infrastructure/models/dto"
	"go.uber.org/zap"
)

const (
	selectLabelsQuery = `
SELECT id, name, color
FROM labels
ORDER BY name;`

	selectLabelByNameQuery = `
SELECT id, name, color
FROM labels
WHERE name = $1;`

	insertLabelQuery = `
INSERT INTO labels (name, color)
VALUES ($1, $2)
RETURNING id, name, color;`

	// DO UPDATE нужен, чтобы RETURNING вернул строку, созданную конкурентной транзакцией
	upsertLabelQuery = `
INSERT INTO labels (name)
VALUES ($1)
ON CONFLICT (name) DO UPDATE
    SET name = EXCLUDED.name
RETURNING id, name, color;`

	selectIssueLabelsQuery = `
SELECT l.id, l.name, l.color
FROM issue_labels il
JOIN labels l ON l.id = il.label_id
WHERE il.issue_id = $1
ORDER BY l.name;`

	deleteIssueLabelsQuery = `
DELETE FROM issue_labels
WHERE issue_id = $1;`

	insertIssueLabelsQuery = `
INSERT INTO issue_labels (issue_id, label_id)
SELECT $1, unnest($2::bigint[])
ON CONFLICT (issue_id, label_id) DO NOTHING;`
)

type LabelRepository struct {
	db  queryExecutor
	log *zap.Logger
}

func NewLabelRepository(db queryExecutor, log *zap.Logger) *LabelRepository {
	return &LabelRepository{
		db:  db,
		log: log,
	}
}

func (r *LabelRepository) List(ctx context.Context) ([]*domain.Label, error) {
	return r.queryLabels(ctx, selectLabelsQuery)
}

func (r *LabelRepository) GetByName(ctx context.Context, name string) (*domain.Label, error) {
	label := &domain.Label{}
	err := r.db.QueryRow(ctx, selectLabelByNameQuery, name).Scan(&label.Id, &label.Name, &label.Color)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.log.Error("failed to read label", zap.String("name", name), zap.Error(err))
		}
		return nil, handleDBError(err)
	}
	return label, nil
}

func (r *LabelRepository) Create(ctx context.Context, d *dto.CreateLabelDTO) (*domain.Label, error) {
	label := &domain.Label{}
	err := r.db.QueryRow(ctx, insertLabelQuery, d.Name, d.Color).Scan(&label.Id, &label.Name, &label.Color)
	if err != nil {
		r.log.Error("failed to insert label", zap.String("name", d.Name), zap.Error(err))
		return nil, handleDBError(err)
	}
	return label, nil
}

func (r *LabelRepository) GetOrCreate(ctx context.Context, name string) (*domain.Label, error) {
	label := &domain.Label{}
	err := r.db.QueryRow(ctx, upsertLabelQuery, name).Scan(&label.Id, &label.Name, &label.Color)
	if err != nil {
		r.log.Error("failed to upsert label", zap.String("name", name), zap.Error(err))
		return nil, handleDBError(err)
	}
	return label, nil
}

func (r *LabelRepository) ListByIssue(ctx context.Context, issueId int64) ([]*domain.Label, error) {
	return r.queryLabels(ctx, selectIssueLabelsQuery, issueId)
}

// ReplaceForIssue меняет только связи issue_labels, сами метки не удаляются
func (r *LabelRepository) ReplaceForIssue(ctx context.Context, issueId int64, labelIds []int64) error {
	if _, err := r.db.Exec(ctx, deleteIssueLabelsQuery, issueId); err != nil {
		r.log.Error("failed to detach labels", zap.Int64("issue_id", issueId), zap.Error(err))
		return handleDBError(err)
	}
	if len(labelIds) == 0 {
		return nil
	}
	if _, err := r.db.Exec(ctx, insertIssueLabelsQuery, issueId, labelIds); err != nil {
		r.log.Error("failed to attach labels",
			zap.Int64("issue_id", issueId),
			zap.Int64s("label_ids", labelIds),
			zap.Error(err),
		)
		return handleDBError(err)
	}
	return nil
}

func (r *LabelRepository) queryLabels(ctx context.Context, query string, args ...any) ([]*domain.Label, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to query labels", zap.Error(err))
		return nil, handleDBError(err)
	}
	defer rows.Close()

	labels := make([]*domain.Label, 0)
	for rows.Next() {
		label := &domain.Label{}
		if err := rows.Scan(&label.Id, &label.Name, &label.Color); err != nil {
			return nil, handleDBError(err)
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, handleDBError(err)
	}
	return labels, nil
}
