package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/niklvrr/issuetracker/internal/domain"
	"github.com/niklvrr/issuetracker/internal/transport/dto/request"
	"github.com/niklvrr/issuetracker/internal/transport/dto/response"
	"github.com/niklvrr/issuetracker/internal/usecase/service"
	"go.uber.org/zap"
)

type CommentService interface {
	Create(ctx context.Context, req *request.CreateCommentRequest) (*domain.Comment, error)
	Get(ctx context.Context, req *request.GetCommentRequest) (*domain.Comment, error)
	List(ctx context.Context, req *request.ListCommentsRequest) (*response.CommentListResponse, error)
}

type CommentHandler struct {
	svc CommentService
	log *zap.Logger
}

func NewCommentHandler(svc CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{
		svc: svc,
		log: log,
	}
}

func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	issueId, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}

	var req request.CreateCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	req.IssueId = issueId

	comment, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	issueId, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	commentId, err := pathID(r, "commentID")
	if err != nil {
		writeErr(w, err)
		return
	}

	comment, err := h.svc.Get(r.Context(), &request.GetCommentRequest{IssueId: issueId, CommentId: commentId})
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comment)
}

func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	issueId, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}

	req, err := parseListComments(r)
	if err != nil {
		h.log.Warn("invalid comment filters", zap.Int64("issue_id", issueId), zap.Error(err))
		writeErr(w, err)
		return
	}
	req.IssueId = issueId

	resp, err := h.svc.List(r.Context(), req)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func parseListComments(r *http.Request) (*request.ListCommentsRequest, error) {
	q := r.URL.Query()
	req := &request.ListCommentsRequest{SortOrder: q.Get("sort_order")}

	var err error
	if req.Page, err = queryInt(r, "page"); err != nil {
		return nil, err
	}
	if req.PageSize, err = queryInt(r, "page_size"); err != nil {
		return nil, err
	}

	if raw := q.Get("author_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, service.WrapError(service.ErrInvalidInput, fmt.Errorf("invalid author_id %q", raw))
		}
		req.AuthorId = &id
	}
	if req.CreatedAfter, err = queryTime(r, "created_after"); err != nil {
		return nil, err
	}
	if req.CreatedBefore, err = queryTime(r, "created_before"); err != nil {
		return nil, err
	}
	return req, nil
}

func queryTime(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, service.WrapError(service.ErrInvalidInput, fmt.Errorf("%s must be RFC3339, got %q", name, raw))
	}
	return &t, nil
}
