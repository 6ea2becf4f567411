package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/niklvrr/issuetracker/internal/domain"
	"github.com/niklvrr/issuetracker/internal/infrastructure/models/dto"
	"github.com/niklvrr/issuetracker/internal/infrastructure/models/result"
	"go.uber.org/zap"
)

const (
	insertCommentQuery = `
INSERT INTO comments (content, issue_id, author_id, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id, content, issue_id, author_id, created_at;`

	selectCommentQuery = `
SELECT id, content, issue_id, author_id, created_at
FROM comments
WHERE id = $1 AND issue_id = $2;`
)

type CommentRepository struct {
	db  queryExecutor
	log *zap.Logger
}

func NewCommentRepository(db queryExecutor, log *zap.Logger) *CommentRepository {
	return &CommentRepository{
		db:  db,
		log: log,
	}
}

func (r *CommentRepository) Create(ctx context.Context, d *dto.CreateCommentDTO) (*domain.Comment, error) {
	c := &domain.Comment{}
	err := r.db.QueryRow(ctx, insertCommentQuery, d.Content, d.IssueId, d.AuthorId, d.CreatedAt).Scan(
		&c.Id,
		&c.Content,
		&c.IssueId,
		&c.AuthorId,
		&c.CreatedAt,
	)
	if err != nil {
		r.log.Error("failed to insert comment",
			zap.Int64("issue_id", d.IssueId),
			zap.Int64("author_id", d.AuthorId),
			zap.Error(err),
		)
		return nil, handleDBError(err)
	}
	return c, nil
}

func (r *CommentRepository) GetByID(ctx context.Context, issueId, commentId int64) (*domain.Comment, error) {
	c := &domain.Comment{}
	err := r.db.QueryRow(ctx, selectCommentQuery, commentId, issueId).Scan(
		&c.Id,
		&c.Content,
		&c.IssueId,
		&c.AuthorId,
		&c.CreatedAt,
	)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.log.Error("failed to read comment", zap.Int64("comment_id", commentId), zap.Error(err))
		}
		return nil, handleDBError(err)
	}
	return c, nil
}

func (r *CommentRepository) List(ctx context.Context, d *dto.ListCommentsDTO) (*result.CommentPage, error) {
	where, args := commentFilter(d)

	var total int
	countQuery := "SELECT COUNT(*) FROM comments WHERE " + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.log.Error("failed to count comments", zap.Int64("issue_id", d.IssueId), zap.Error(err))
		return nil, handleDBError(err)
	}

	order := "DESC"
	if d.Ascending {
		order = "ASC"
	}
	listQuery := fmt.Sprintf(`
SELECT id, content, issue_id, author_id, created_at
FROM comments
WHERE %s
ORDER BY created_at %s, id %s
LIMIT $%d OFFSET $%d;`, where, order, order, len(args)+1, len(args)+2)

	rows, err := r.db.Query(ctx, listQuery, append(args, d.Limit, d.Offset)...)
	if err != nil {
		r.log.Error("failed to list comments", zap.Int64("issue_id", d.IssueId), zap.Error(err))
		return nil, handleDBError(err)
	}
	defer rows.Close()

	comments := make([]*domain.Comment, 0, d.Limit)
	for rows.Next() {
		c := &domain.Comment{}
		if err := rows.Scan(&c.Id, &c.Content, &c.IssueId, &c.AuthorId, &c.CreatedAt); err != nil {
			return nil, handleDBError(err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, handleDBError(err)
	}

	return &result.CommentPage{
		Total:    total,
		Comments: comments,
	}, nil
}

// commentFilter собирает WHERE с позиционными параметрами
func commentFilter(d *dto.ListCommentsDTO) (string, []any) {
	conds := []string{"issue_id = $1"}
	args := []any{d.IssueId}

	if d.AuthorId != nil {
		args = append(args, *d.AuthorId)
		conds = append(conds, fmt.Sprintf("author_id = $%d", len(args)))
	}
	if d.CreatedAfter != nil {
		args = append(args, *d.CreatedAfter)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if d.CreatedBefore != nil {
		args = append(args, *d.CreatedBefore)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	return strings.Join(conds, " AND "), args
}
