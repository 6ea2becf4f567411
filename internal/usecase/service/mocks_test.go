package service

import (
	"context"
	"time"

	"github.com/niklvrr/issuetracker/internal/domain"
	"github.com/niklvrr/issuetracker/internal/infrastructure/models/dto"
	"github.com/niklvrr/issuetracker/internal/infrastructure/models/result"
	"github.com/niklvrr/issuetracker/internal/infrastructure/repository"
	"github.com/stretchr/testify/mock"
)

// MockIssueStore мок хранилища задач
type MockIssueStore struct {
	mock.Mock
}

func (m *MockIssueStore) Create(ctx context.Context, d *dto.CreateIssueDTO) (*domain.Issue, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Issue), args.Error(1)
}

func (m *MockIssueStore) GetByID(ctx context.Context, id int64) (*domain.Issue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Issue), args.Error(1)
}

func (m *MockIssueStore) UpdateVersioned(ctx context.Context, issue *domain.Issue, expectedVersion int) (*domain.Issue, error) {
	args := m.Called(ctx, issue, expectedVersion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Issue), args.Error(1)
}

func (m *MockIssueStore) LockByIDs(ctx context.Context, ids []int64) ([]*domain.Issue, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Issue), args.Error(1)
}

func (m *MockIssueStore) ApplyStatus(ctx context.Context, issues []*domain.Issue) (int, error) {
	args := m.Called(ctx, issues)
	return args.Int(0), args.Error(1)
}

// MockUserStore мок хранилища пользователей
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, d *dto.CreateUserDTO) (*domain.User, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockLabelStore мок хранилища меток
type MockLabelStore struct {
	mock.Mock
}

func (m *MockLabelStore) List(ctx context.Context) ([]*domain.Label, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Label), args.Error(1)
}

func (m *MockLabelStore) GetByName(ctx context.Context, name string) (*domain.Label, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Label), args.Error(1)
}

func (m *MockLabelStore) Create(ctx context.Context, d *dto.CreateLabelDTO) (*domain.Label, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Label), args.Error(1)
}

func (m *MockLabelStore) GetOrCreate(ctx context.Context, name string) (*domain.Label, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Label), args.Error(1)
}

func (m *MockLabelStore) ListByIssue(ctx context.Context, issueId int64) ([]*domain.Label, error) {
	args := m.Called(ctx, issueId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Label), args.Error(1)
}

func (m *MockLabelStore) ReplaceForIssue(ctx context.Context, issueId int64, labelIds []int64) error {
	args := m.Called(ctx, issueId, labelIds)
	return args.Error(0)
}

// MockEventStore мок журнала событий
type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) Append(ctx context.Context, e *domain.IssueEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

// MockCommentStore мок хранилища комментариев
type MockCommentStore struct {
	mock.Mock
}

func (m *MockCommentStore) Create(ctx context.Context, d *dto.CreateCommentDTO) (*domain.Comment, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *MockCommentStore) GetByID(ctx context.Context, issueId, commentId int64) (*domain.Comment, error) {
	args := m.Called(ctx, issueId, commentId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *MockCommentStore) List(ctx context.Context, d *dto.ListCommentsDTO) (*result.CommentPage, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*result.CommentPage), args.Error(1)
}

// MockReportStore мок отчётов
type MockReportStore struct {
	mock.Mock
}

func (m *MockReportStore) TopAssignees(ctx context.Context, limit int) ([]result.TopAssignee, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]result.TopAssignee), args.Error(1)
}

func (m *MockReportStore) AverageResolutionSeconds(ctx context.Context) (*float64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

// fakeStorage выполняет fn на тех же моках и считает коммиты и откаты
type fakeStorage struct {
	issues   *MockIssueStore
	users    *MockUserStore
	labels   *MockLabelStore
	events   *MockEventStore
	comments *MockCommentStore
	reports  *MockReportStore

	commits   int
	rollbacks int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		issues:   new(MockIssueStore),
		users:    new(MockUserStore),
		labels:   new(MockLabelStore),
		events:   new(MockEventStore),
		comments: new(MockCommentStore),
		reports:  new(MockReportStore),
	}
}

func (f *fakeStorage) Issues() repository.IssueStore     { return f.issues }
func (f *fakeStorage) Users() repository.UserStore       { return f.users }
func (f *fakeStorage) Labels() repository.LabelStore     { return f.labels }
func (f *fakeStorage) Events() repository.EventStore     { return f.events }
func (f *fakeStorage) Comments() repository.CommentStore { return f.comments }
func (f *fakeStorage) Reports() repository.ReportStore   { return f.reports }

func (f *fakeStorage) Stores() repository.StoreProvider { return f }

func (f *fakeStorage) WithTx(ctx context.Context, fn func(stores repository.StoreProvider) error) error {
	if err := fn(f); err != nil {
		f.rollbacks++
		return err
	}
	f.commits++
	return nil
}

var fixedNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func fixedClock() Clock {
	return ClockFunc(func() time.Time { return fixedNow })
}

func ptr[T any](v T) *T {
	return &v
}
