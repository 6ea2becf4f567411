package repository

import (
	"context"

	"github.com/niklvrr/issuetracker/internal/domain"
	"github.com/niklvrr/issuetracker/internal/infrastructure/models/dto"
	"github.com/niklvrr/issuetracker/internal/infrastructure/models/result"
)

type IssueStore interface {
	Create(ctx context.Context, d *dto.CreateIssueDTO) (*domain.Issue, error)
	GetByID(ctx context.Context, id int64) (*domain.Issue, error)
	// UpdateVersioned записывает issue только если в базе всё ещё expectedVersion,
	// иначе ErrStaleVersion. Версия увеличивается на 1.
	UpdateVersioned(ctx context.Context, issue *domain.Issue, expectedVersion int) (*domain.Issue, error)
	// LockByIDs читает строки под SELECT ... FOR UPDATE до конца транзакции
	LockByIDs(ctx context.Context, ids []int64) ([]*domain.Issue, error)
	ApplyStatus(ctx context.Context, issues []*domain.Issue) (int, error)
}

type UserStore interface {
	Create(ctx context.Context, d *dto.CreateUserDTO) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type LabelStore interface {
	List(ctx context.Context) ([]*domain.Label, error)
	GetByName(ctx context.Context, name string) (*domain.Label, error)
	Create(ctx context.Context, d *dto.CreateLabelDTO) (*domain.Label, error)
	GetOrCreate(ctx context.Context, name string) (*domain.Label, error)
	ListByIssue(ctx context.Context, issueId int64) ([]*domain.Label, error)
	ReplaceForIssue(ctx context.Context, issueId int64, labelIds []int64) error
}

type EventStore interface {
	Append(ctx context.Context, e *domain.IssueEvent) error
}

type CommentStore interface {
	Create(ctx context.Context, d *dto.CreateCommentDTO) (*domain.Comment, error)
	GetByID(ctx context.Context, issueId, commentId int64) (*domain.Comment, error)
	List(ctx context.Context, d *dto.ListCommentsDTO) (*result.CommentPage, error)
}

type ReportStore interface {
	TopAssignees(ctx context.Context, limit int) ([]result.TopAssignee, error)
	AverageResolutionSeconds(ctx context.Context) (*float64, error)
}

// StoreProvider отдаёт хранилища, привязанные к одному соединению или транзакции
type StoreProvider interface {
	Issues() IssueStore
	Users() UserStore
	Labels() LabelStore
	Events() EventStore
	Comments() CommentStore
	Reports() ReportStore
}

type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

// Storage объединяет чтение вне транзакции и явные транзакции
type Storage interface {
	TxRunner
	Stores() StoreProvider
}
