package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/niklvrr/issuetracker/internal/domain"
	"github.com/niklvrr/issuetracker/internal/infrastructure/models/dto"
	"github.com/niklvrr/issuetracker/internal/infrastructure/repository"
	"github.com/niklvrr/issuetracker/internal/transport/dto/request"
	"github.com/niklvrr/issuetracker/internal/transport/dto/response"
	"go.uber.org/zap"
)

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)

type LabelService struct {
	storage repository.Storage
	clock   Clock
	log     *zap.Logger
}

func NewLabelService(storage repository.Storage, clock Clock, log *zap.Logger) *LabelService {
	return &LabelService{
		storage: storage,
		clock:   clock,
		log:     log,
	}
}

func (s *LabelService) Create(ctx context.Context, req *request.CreateLabelRequest) (*response.LabelResponse, error) {
	name := domain.NormalizeLabelName(req.Name)
	if name == "" || len([]rune(name)) > domain.LabelNameMaxLen {
		return nil, invalidInput("label name must be between 1 and %d characters", domain.LabelNameMaxLen)
	}
	if req.Color != nil && !hexColorRe.MatchString(*req.Color) {
		return nil, invalidInput("invalid color %q", *req.Color)
	}

	label, err := s.storage.Stores().Labels().Create(ctx, &dto.CreateLabelDTO{Name: name, Color: req.Color})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, WrapError(ErrLabelExists, err)
		}
		s.log.Error("failed to create label", zap.String("name", name), zap.Error(err))
		return nil, WrapError(ErrInternal, err)
	}

	s.log.Info("label created", zap.Int64("label_id", label.Id), zap.String("name", label.Name))
	return &response.LabelResponse{Id: label.Id, Name: label.Name, Color: label.Color}, nil
}

func (s *LabelService) List(ctx context.Context) (*response.LabelListResponse, error) {
	labels, err := s.storage.Stores().Labels().List(ctx)
	if err != nil {
		return nil, WrapError(ErrInternal, err)
	}
	return response.NewLabelListResponse(labels), nil
}

// Replace полностью заменяет набор меток задачи и пишет событие "labels updated"
// в той же транзакции. Отсутствующие метки создаются, лишние только отвязываются.
func (s *LabelService) Replace(ctx context.Context, req *request.ReplaceLabelsRequest) (*response.LabelListResponse, error) {
	names, err := normalizeLabelNames(req.Labels)
	if err != nil {
		return nil, err
	}

	s.log.Info("replace labels accepted",
		zap.Int64("issue_id", req.IssueId),
		zap.Strings("labels", names),
	)

	var labels []*domain.Label
	err = s.storage.WithTx(ctx, func(st repository.StoreProvider) error {
		// Блокировка строки задачи упорядочивает конкурентные замены меток одной задачи
		locked, err := st.Issues().LockByIDs(ctx, []int64{req.IssueId})
		if err != nil {
			return err
		}
		if len(locked) == 0 {
			return WrapError(ErrIssueNotFound, repository.ErrNotFound)
		}

		old, err := st.Labels().ListByIssue(ctx, req.IssueId)
		if err != nil {
			return err
		}

		resolved := make([]*domain.Label, 0, len(names))
		ids := make([]int64, 0, len(names))
		for _, name := range names {
			label, err := st.Labels().GetByName(ctx, name)
			if errors.Is(err, repository.ErrNotFound) {
				label, err = st.Labels().GetOrCreate(ctx, name)
			}
			if err != nil {
				return err
			}
			resolved = append(resolved, label)
			ids = append(ids, label.Id)
		}

		if err := st.Labels().ReplaceForIssue(ctx, req.IssueId, ids); err != nil {
			return err
		}

		oldSnapshot := domain.LabelSnapshot(old)
		newSnapshot := domain.LabelSnapshot(resolved)
		event := &domain.IssueEvent{
			IssueId:   req.IssueId,
			EventType: domain.EventLabelsUpdated,
			OldValue:  &oldSnapshot,
			NewValue:  &newSnapshot,
			CreatedAt: s.clock.Now(),
		}
		if err := st.Events().Append(ctx, event); err != nil {
			return err
		}

		labels = resolved
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrIssueNotFound) {
			return nil, err
		}
		// Наружу всегда INTERNAL_ERROR, в логе различаем нарушение ограничений и прочие сбои
		cause := "unexpected"
		if repository.IsConstraintViolation(err) {
			cause = "constraint_violation"
		}
		s.log.Error("failed to replace labels",
			zap.Int64("issue_id", req.IssueId),
			zap.String("cause", cause),
			zap.Error(err),
		)
		return nil, WrapError(ErrLabelsUpdateFailed, err)
	}

	s.log.Info("labels replaced",
		zap.Int64("issue_id", req.IssueId),
		zap.Int("labels", len(labels)),
	)
	return response.NewLabelListResponse(labels), nil
}

// normalizeLabelNames приводит имена к нижнему регистру без пробелов и убирает повторы
func normalizeLabelNames(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, invalidInput("labels must contain at least one name")
	}

	seen := make(map[string]struct{}, len(raw))
	names := make([]string, 0, len(raw))
	for _, r := range raw {
		name := domain.NormalizeLabelName(r)
		if name == "" {
			return nil, invalidInput("label name must not be blank")
		}
		if len([]rune(name)) > domain.LabelNameMaxLen {
			return nil, invalidInput("label %q is longer than %d characters", strings.TrimSpace(r), domain.LabelNameMaxLen)
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}
