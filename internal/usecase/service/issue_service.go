package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/niklvrr/issuetracker/internal/domain"
	"github.com/niklvrr/issuetracker/internal/infrastructure/models/dto"
	"github.com/niklvrr/issuetracker/internal/infrastructure/repository"
	"github.com/niklvrr/issuetracker/internal/transport/dto/request"
	"github.com/niklvrr/issuetracker/internal/transport/dto/response"
	"go.uber.org/zap"
)

type IssueService struct {
	storage repository.Storage
	clock   Clock
	log     *zap.Logger
}

func NewIssueService(storage repository.Storage, clock Clock, log *zap.Logger) *IssueService {
	return &IssueService{
		storage: storage,
		clock:   clock,
		log:     log,
	}
}

func (s *IssueService) Create(ctx context.Context, req *request.CreateIssueRequest) (*response.CreateIssueResponse, error) {
	title := strings.TrimSpace(req.Title)
	if err := validateTitle(title); err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	priority := domain.PriorityLow
	if req.Priority != nil && *req.Priority != "" {
		priority = domain.Priority(normalizeEnum(*req.Priority))
		if !priority.Valid() {
			return nil, invalidInput("invalid priority %q", *req.Priority)
		}
	}

	// Собираем dto
	d := &dto.CreateIssueDTO{
		Title:       title,
		Description: req.Description,
		Priority:    priority,
		AssigneeId:  req.AssigneeId,
		CreatedAt:   s.clock.Now(),
	}

	var created *domain.Issue
	err := s.storage.WithTx(ctx, func(st repository.StoreProvider) error {
		if d.AssigneeId != nil {
			if err := ensureUserExists(ctx, st, *d.AssigneeId, ErrAssigneeNotFound); err != nil {
				return err
			}
		}

		var err error
		created, err = st.Issues().Create(ctx, d)
		if d.AssigneeId != nil && errors.Is(err, repository.ErrMissingReference) {
			return WrapError(ErrAssigneeNotFound, fmt.Errorf("user %d: %w", *d.AssigneeId, err))
		}
		return err
	})
	if err != nil {
		s.log.Error("failed to create issue", zap.String("title", title), zap.Error(err))
		return nil, asDomainError(err, ErrTransactionFailed)
	}

	s.log.Info("issue created", zap.Int64("issue_id", created.Id))

	// Ответ
	return &response.CreateIssueResponse{
		Message: "Issue created successfully",
		Issue:   response.NewIssueResponse(created),
	}, nil
}

func (s *IssueService) Get(ctx context.Context, req *request.GetIssueRequest) (*response.IssueResponse, error) {
	stores := s.storage.Stores()

	issue, err := stores.Issues().GetByID(ctx, req.IssueId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrIssueNotFound, err)
		}
		return nil, WrapError(ErrInternal, err)
	}

	labels, err := stores.Labels().ListByIssue(ctx, req.IssueId)
	if err != nil {
		return nil, WrapError(ErrInternal, err)
	}

	resp := response.NewIssueResponse(issue)
	resp.Labels = response.NewLabelResponses(labels)
	return resp, nil
}

// Update применяет частичное изменение с оптимистичной блокировкой по версии.
// Повторов нет: при конфликте клиент перечитывает задачу и отправляет запрос заново.
func (s *IssueService) Update(ctx context.Context, req *request.UpdateIssueRequest) (*response.IssueResponse, error) {
	normalizePatch(req)
	if err := validatePatch(req); err != nil {
		return nil, err
	}
	expected := *req.Version

	s.log.Info("update issue request accepted",
		zap.Int64("issue_id", req.IssueId),
		zap.Int("version", expected),
	)

	var updated *domain.Issue
	err := s.storage.WithTx(ctx, func(st repository.StoreProvider) error {
		current, err := st.Issues().GetByID(ctx, req.IssueId)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return WrapError(ErrIssueNotFound, err)
			}
			return err
		}

		if current.Version != expected {
			return WrapError(ErrVersionConflict,
				fmt.Errorf("supplied version %d, stored version %d", expected, current.Version))
		}

		// Исполнитель проверяется только если его явно передали
		if req.AssigneeId.Set {
			if err := ensureUserExists(ctx, st, req.AssigneeId.Value, ErrAssigneeNotFound); err != nil {
				return err
			}
		}

		next := *current
		applyPatch(&next, req, s.clock.Now())

		updated, err = st.Issues().UpdateVersioned(ctx, &next, current.Version)
		switch {
		case errors.Is(err, repository.ErrStaleVersion):
			return WrapError(ErrVersionConflict, err)
		case req.AssigneeId.Set && errors.Is(err, repository.ErrMissingReference):
			// Исполнителя удалили между проверкой и записью
			return WrapError(ErrAssigneeNotFound, fmt.Errorf("user %d: %w", req.AssigneeId.Value, err))
		}
		return err
	})
	if err != nil {
		if errors.Is(err, ErrVersionConflict) {
			versionConflicts.Inc()
			s.log.Warn("issue version conflict",
				zap.Int64("issue_id", req.IssueId),
				zap.Int("version", expected),
				zap.Error(err),
			)
		} else {
			s.log.Error("failed to update issue", zap.Int64("issue_id", req.IssueId), zap.Error(err))
		}
		return nil, asDomainError(err, ErrTransactionFailed)
	}

	s.log.Info("issue updated",
		zap.Int64("issue_id", updated.Id),
		zap.Int("version", updated.Version),
		zap.String("status", string(updated.Status)),
	)
	return response.NewIssueResponse(updated), nil
}

// BulkUpdateStatus переводит пакет задач в один статус: либо все, либо ни одной.
// Строки блокируются FOR UPDATE до коммита.
func (s *IssueService) BulkUpdateStatus(ctx context.Context, req *request.BulkStatusRequest) (*response.BulkStatusResponse, error) {
	status := domain.Status(normalizeEnum(req.Status))
	if !status.Valid() {
		return nil, invalidInput("invalid status %q", req.Status)
	}
	ids := uniqueIds(req.IssueIds)
	if len(ids) == 0 {
		return nil, invalidInput("issue_ids must not be empty")
	}

	s.log.Info("bulk status update accepted",
		zap.Int("issues", len(ids)),
		zap.String("status", req.Status),
	)

	var updatedCount int
	err := s.storage.WithTx(ctx, func(st repository.StoreProvider) error {
		issues, err := st.Issues().LockByIDs(ctx, ids)
		if err != nil {
			return err
		}

		if len(issues) != len(ids) {
			return WrapError(ErrIssueNotFound, fmt.Errorf("missing issue ids %v", missingIds(ids, issues)))
		}

		if status == domain.StatusClosed {
			for _, issue := range issues {
				if issue.Status != domain.StatusResolved {
					return WrapError(ErrInvalidTransition,
						fmt.Errorf("issue %d is %s", issue.Id, issue.Status))
				}
			}
		}

		now := s.clock.Now()
		for _, issue := range issues {
			if status == domain.StatusClosed {
				// Закрытие сохраняет resolved_at
				issue.Status = status
			} else {
				issue.SetStatus(status, now)
			}
			issue.UpdatedAt = now
		}

		updatedCount, err = st.Issues().ApplyStatus(ctx, issues)
		if err != nil {
			return err
		}
		if updatedCount != len(issues) {
			return fmt.Errorf("updated %d of %d locked issues", updatedCount, len(issues))
		}
		return nil
	})
	if err != nil {
		var domainErr *DomainError
		if errors.As(err, &domainErr) {
			bulkTransitions.WithLabelValues("rejected").Inc()
			s.log.Warn("bulk status update rejected",
				zap.String("status", req.Status),
				zap.String("code", domainErr.Code),
				zap.Error(err),
			)
			return nil, err
		}
		bulkTransitions.WithLabelValues("failed").Inc()
		s.log.Error("bulk status update failed", zap.String("status", req.Status), zap.Error(err))
		return nil, WrapError(ErrTransactionFailed, err)
	}

	bulkTransitions.WithLabelValues("applied").Inc()
	s.log.Info("bulk status update applied",
		zap.Int("updated", updatedCount),
		zap.String("status", req.Status),
	)

	// Ответ
	return &response.BulkStatusResponse{
		UpdatedCount: updatedCount,
		IssueIds:     ids,
	}, nil
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < domain.TitleMinLen || n > domain.TitleMaxLen {
		return fmt.Errorf("title must be between %d and %d characters", domain.TitleMinLen, domain.TitleMaxLen)
	}
	return nil
}

// normalizePatch приводит поля к тому же виду, что и при создании задачи
func normalizePatch(req *request.UpdateIssueRequest) {
	if req.Title.Set {
		req.Title.Value = strings.TrimSpace(req.Title.Value)
	}
	if req.Status.Set {
		req.Status.Value = normalizeEnum(req.Status.Value)
	}
	if req.Priority.Set {
		req.Priority.Value = normalizeEnum(req.Priority.Value)
	}
}

func normalizeEnum(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func validatePatch(req *request.UpdateIssueRequest) error {
	if req.Version == nil {
		return invalidInput("version is required")
	}
	if req.Title.Set {
		if err := validateTitle(req.Title.Value); err != nil {
			return WrapError(ErrInvalidInput, err)
		}
	}
	if req.Status.Set && !domain.Status(req.Status.Value).Valid() {
		return invalidInput("invalid status %q", req.Status.Value)
	}
	if req.Priority.Set && !domain.Priority(req.Priority.Value).Valid() {
		return invalidInput("invalid priority %q", req.Priority.Value)
	}
	return nil
}

func applyPatch(issue *domain.Issue, req *request.UpdateIssueRequest, now time.Time) {
	if req.Title.Set {
		issue.Title = req.Title.Value
	}
	if req.Description.Set {
		description := req.Description.Value
		issue.Description = &description
	}
	if req.Priority.Set {
		issue.Priority = domain.Priority(req.Priority.Value)
	}
	if req.AssigneeId.Set {
		assignee := req.AssigneeId.Value
		issue.AssigneeId = &assignee
	}
	if req.Status.Set {
		issue.SetStatus(domain.Status(req.Status.Value), now)
	}
	issue.UpdatedAt = now
}

func ensureUserExists(ctx context.Context, st repository.StoreProvider, userId int64, notFound *DomainError) error {
	exists, err := st.Users().Exists(ctx, userId)
	if err != nil {
		return err
	}
	if !exists {
		return WrapError(notFound, fmt.Errorf("user %d", userId))
	}
	return nil
}

// uniqueIds убирает повторы, сохраняя порядок запроса
func uniqueIds(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	res := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	return res
}

func missingIds(requested []int64, found []*domain.Issue) []int64 {
	present := make(map[int64]struct{}, len(found))
	for _, issue := range found {
		present[issue.Id] = struct{}{}
	}
	var missing []int64
	for _, id := range requested {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
