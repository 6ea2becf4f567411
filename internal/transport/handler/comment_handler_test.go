package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/niklvrr/issuetracker/internal/domain"
	"github.com/niklvrr/issuetracker/internal/transport/dto/request"
	"github.com/niklvrr/issuetracker/internal/transport/dto/response"
	"github.com/niklvrr/issuetracker/internal/usecase/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockCommentService мок сервиса комментариев
type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) Create(ctx context.Context, req *request.CreateCommentRequest) (*domain.Comment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *MockCommentService) Get(ctx context.Context, req *request.GetCommentRequest) (*domain.Comment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *MockCommentService) List(ctx context.Context, req *request.ListCommentsRequest) (*response.CommentListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.CommentListResponse), args.Error(1)
}

func TestCommentHandler_ListComments_ParsesFilters(t *testing.T) {
	mockService := new(MockCommentService)
	handler := NewCommentHandler(mockService, zap.NewNop())

	after := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mockService.On("List", mock.Anything, mock.MatchedBy(func(r *request.ListCommentsRequest) bool {
		return r.IssueId == 3 &&
			*r.AuthorId == 7 &&
			r.CreatedAfter.Equal(after) &&
			r.CreatedBefore == nil &&
			r.Page == 2 &&
			r.PageSize == 20 &&
			r.SortOrder == "asc"
	})).Return(&response.CommentListResponse{Total: 0, Page: 2, PageSize: 20, Comments: []*domain.Comment{}}, nil)

	req := httptest.NewRequest(http.MethodGet,
		"/issues/3/comments?author_id=7&created_after=2025-01-01T00:00:00Z&page=2&page_size=20&sort_order=asc", nil)
	req = withURLParams(req, map[string]string{"id": "3"})
	w := httptest.NewRecorder()

	handler.ListComments(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestCommentHandler_ListComments_BadQuery(t *testing.T) {
	mockService := new(MockCommentService)
	handler := NewCommentHandler(mockService, zap.NewNop())

	for _, query := range []string{"page=one", "author_id=x", "created_before=yesterday"} {
		req := httptest.NewRequest(http.MethodGet, "/issues/3/comments?"+query, nil)
		req = withURLParams(req, map[string]string{"id": "3"})
		w := httptest.NewRecorder()

		handler.ListComments(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
	mockService.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestCommentHandler_CreateComment(t *testing.T) {
	mockService := new(MockCommentService)
	handler := NewCommentHandler(mockService, zap.NewNop())

	mockService.On("Create", mock.Anything, mock.MatchedBy(func(r *request.CreateCommentRequest) bool {
		return r.IssueId == 3 && r.Content == "hello" && *r.AuthorId == 1
	})).Return(&domain.Comment{Id: 1, IssueId: 3, AuthorId: 1, Content: "hello"}, nil).Once()
	mockService.On("Create", mock.Anything, mock.Anything).
		Return(nil, service.WrapError(service.ErrAuthorNotFound, nil)).Once()

	req := withURLParams(httptest.NewRequest(http.MethodPost, "/issues/3/comments",
		strings.NewReader(`{"content":"hello","author_id":1}`)), map[string]string{"id": "3"})
	w := httptest.NewRecorder()
	handler.CreateComment(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	req = withURLParams(httptest.NewRequest(http.MethodPost, "/issues/3/comments",
		strings.NewReader(`{"content":"hello","author_id":99}`)), map[string]string{"id": "3"})
	w = httptest.NewRecorder()
	handler.CreateComment(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentHandler_GetComment(t *testing.T) {
	mockService := new(MockCommentService)
	handler := NewCommentHandler(mockService, zap.NewNop())

	mockService.On("Get", mock.Anything, &request.GetCommentRequest{IssueId: 3, CommentId: 9}).
		Return(&domain.Comment{Id: 9, IssueId: 3}, nil)

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/issues/3/comments/9", nil),
		map[string]string{"id": "3", "commentID": "9"})
	w := httptest.NewRecorder()

	handler.GetComment(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
