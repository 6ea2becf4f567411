package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/niklvrr/issuetracker/internal/transport/dto/request"
	"github.com/niklvrr/issuetracker/internal/transport/dto/response"
	"github.com/niklvrr/issuetracker/internal/usecase/service"
	"go.uber.org/zap"
)

const importFileField = "file"

type IssueService interface {
	Create(ctx context.Context, req *request.CreateIssueRequest) (*response.CreateIssueResponse, error)
	Get(ctx context.Context, req *request.GetIssueRequest) (*response.IssueResponse, error)
	Update(ctx context.Context, req *request.UpdateIssueRequest) (*response.IssueResponse, error)
	BulkUpdateStatus(ctx context.Context, req *request.BulkStatusRequest) (*response.BulkStatusResponse, error)
}

type IssueLabelService interface {
	Replace(ctx context.Context, req *request.ReplaceLabelsRequest) (*response.LabelListResponse, error)
}

type ImportService interface {
	Import(ctx context.Context, req *request.ImportIssuesRequest) (*response.ImportIssuesResponse, error)
}

type IssueHandler struct {
	svc            IssueService
	labels         IssueLabelService
	importer       ImportService
	maxUploadBytes int64
	log            *zap.Logger
}

func NewIssueHandler(
	svc IssueService,
	labels IssueLabelService,
	importer ImportService,
	maxUploadBytes int64,
	log *zap.Logger,
) *IssueHandler {
	return &IssueHandler{
		svc:            svc,
		labels:         labels,
		importer:       importer,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

func (h *IssueHandler) CreateIssue(w http.ResponseWriter, r *http.Request) {
	// Парсим json в модель CreateIssueRequest
	var req request.CreateIssueRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log.Warn("failed to decode request body", zap.Error(err))
		writeErr(w, err)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *IssueHandler) GetIssue(w http.ResponseWriter, r *http.Request) {
	issueId, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}

	resp, err := h.svc.Get(r.Context(), &request.GetIssueRequest{IssueId: issueId})
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *IssueHandler) UpdateIssue(w http.ResponseWriter, r *http.Request) {
	issueId, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}

	var req request.UpdateIssueRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log.Warn("failed to decode request body", zap.Int64("issue_id", issueId), zap.Error(err))
		writeErr(w, err)
		return
	}
	req.IssueId = issueId

	resp, err := h.svc.Update(r.Context(), &req)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *IssueHandler) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req request.BulkStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log.Warn("failed to decode request body", zap.Error(err))
		writeErr(w, err)
		return
	}

	// Валидация
	if len(req.IssueIds) == 0 {
		h.log.Warn("validation failed: issue_ids is empty")
		writeErr(w, service.WrapError(service.ErrInvalidInput, errors.New("issue_ids must not be empty")))
		return
	}

	resp, err := h.svc.BulkUpdateStatus(r.Context(), &req)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *IssueHandler) ReplaceLabels(w http.ResponseWriter, r *http.Request) {
	issueId, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}

	var req request.ReplaceLabelsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	req.IssueId = issueId

	resp, err := h.labels.Replace(r.Context(), &req)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ImportIssues читает multipart потоком: файл не буферизуется целиком ни в памяти, ни на диске
func (h *IssueHandler) ImportIssues(w http.ResponseWriter, r *http.Request) {
	// Заведомо слишком большой файл отклоняем до создания первой задачи
	if r.ContentLength > h.maxUploadBytes {
		h.log.Warn("import rejected: upload too large",
			zap.Int64("content_length", r.ContentLength),
			zap.Int64("limit", h.maxUploadBytes),
		)
		writeErr(w, service.WrapError(service.ErrInvalidFormat,
			fmt.Errorf("upload of %d bytes exceeds limit of %d bytes", r.ContentLength, h.maxUploadBytes)))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	mr, err := r.MultipartReader()
	if err != nil {
		h.log.Warn("import rejected: not a multipart request", zap.Error(err))
		writeErr(w, service.WrapError(service.ErrInvalidFormat, err))
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			writeErr(w, service.WrapError(service.ErrMalformedCSV, err))
			return
		}
		if part.FormName() != importFileField {
			part.Close()
			continue
		}

		resp, err := h.importer.Import(r.Context(), &request.ImportIssuesRequest{
			Filename:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Body:        part,
		})
		part.Close()
		if err != nil {
			writeErr(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, resp)
		return
	}

	writeErr(w, service.WrapError(service.ErrInvalidFormat, fmt.Errorf("multipart field %q is required", importFileField)))
}
