package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/niklvrr/issuetracker/internal/domain"
	"github.com/niklvrr/issuetracker/internal/infrastructure/models/dto"
	"github.com/niklvrr/issuetracker/internal/infrastructure/repository"
	"github.com/niklvrr/issuetracker/internal/transport/dto/request"
	"github.com/niklvrr/issuetracker/internal/transport/dto/response"
	"go.uber.org/zap"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100

	sortAsc  = "asc"
	sortDesc = "desc"
)

type CommentService struct {
	storage repository.Storage
	clock   Clock
	log     *zap.Logger
}

func NewCommentService(storage repository.Storage, clock Clock, log *zap.Logger) *CommentService {
	return &CommentService{
		storage: storage,
		clock:   clock,
		log:     log,
	}
}

func (s *CommentService) Create(ctx context.Context, req *request.CreateCommentRequest) (*domain.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, invalidInput("content must not be empty")
	}
	if req.AuthorId == nil {
		return nil, invalidInput("author_id is required")
	}

	// Собираем dto
	d := &dto.CreateCommentDTO{
		IssueId:   req.IssueId,
		AuthorId:  *req.AuthorId,
		Content:   content,
		CreatedAt: s.clock.Now(),
	}

	var created *domain.Comment
	err := s.storage.WithTx(ctx, func(st repository.StoreProvider) error {
		if _, err := st.Issues().GetByID(ctx, d.IssueId); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return WrapError(ErrIssueNotFound, err)
			}
			return err
		}
		if err := ensureUserExists(ctx, st, d.AuthorId, ErrAuthorNotFound); err != nil {
			return err
		}

		var err error
		created, err = st.Comments().Create(ctx, d)
		return err
	})
	if err != nil {
		s.log.Error("failed to create comment",
			zap.Int64("issue_id", d.IssueId),
			zap.Int64("author_id", d.AuthorId),
			zap.Error(err),
		)
		return nil, asDomainError(err, ErrInternal)
	}

	s.log.Info("comment created", zap.Int64("issue_id", d.IssueId), zap.Int64("comment_id", created.Id))
	return created, nil
}

func (s *CommentService) Get(ctx context.Context, req *request.GetCommentRequest) (*domain.Comment, error) {
	comment, err := s.storage.Stores().Comments().GetByID(ctx, req.IssueId, req.CommentId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrCommentNotFound, err)
		}
		return nil, WrapError(ErrInternal, err)
	}
	return comment, nil
}

func (s *CommentService) List(ctx context.Context, req *request.ListCommentsRequest) (*response.CommentListResponse, error) {
	page, pageSize := req.Page, req.PageSize
	if page == 0 {
		page = defaultPage
	}
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	if page < 1 {
		return nil, invalidInput("page must be >= 1")
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return nil, invalidInput("page_size must be between 1 and %d", maxPageSize)
	}

	order := strings.ToLower(req.SortOrder)
	if order == "" {
		order = sortDesc
	}
	if order != sortAsc && order != sortDesc {
		return nil, invalidInput("sort_order must be %q or %q", sortAsc, sortDesc)
	}
	if req.CreatedAfter != nil && req.CreatedBefore != nil && req.CreatedAfter.After(*req.CreatedBefore) {
		return nil, invalidInput("created_after must not be later than created_before")
	}

	stores := s.storage.Stores()
	if _, err := stores.Issues().GetByID(ctx, req.IssueId); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrIssueNotFound, err)
		}
		return nil, WrapError(ErrInternal, err)
	}

	res, err := stores.Comments().List(ctx, &dto.ListCommentsDTO{
		IssueId:       req.IssueId,
		AuthorId:      req.AuthorId,
		CreatedAfter:  req.CreatedAfter,
		CreatedBefore: req.CreatedBefore,
		Ascending:     order == sortAsc,
		Limit:         pageSize,
		Offset:        (page - 1) * pageSize,
	})
	if err != nil {
		s.log.Error("failed to list comments", zap.Int64("issue_id", req.IssueId), zap.Error(err))
		return nil, WrapError(ErrInternal, fmt.Errorf("list comments: %w", err))
	}

	comments := res.Comments
	if comments == nil {
		comments = []*domain.Comment{}
	}
	return &response.CommentListResponse{
		Total:    res.Total,
		Page:     page,
		PageSize: pageSize,
		Comments: comments,
	}, nil
}
