package handler

import (
	"context"
	"net/http"

	"github.com/niklvrr/issuetracker/internal/transport/dto/request"
	"github.com/niklvrr/issuetracker/internal/transport/dto/response"
	"go.uber.org/zap"
)

type LabelService interface {
	Create(ctx context.Context, req *request.CreateLabelRequest) (*response.LabelResponse, error)
	List(ctx context.Context) (*response.LabelListResponse, error)
}

type LabelHandler struct {
	svc LabelService
	log *zap.Logger
}

func NewLabelHandler(svc LabelService, log *zap.Logger) *LabelHandler {
	return &LabelHandler{
		svc: svc,
		log: log,
	}
}

func (h *LabelHandler) CreateLabel(w http.ResponseWriter, r *http.Request) {
	var req request.CreateLabelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}

	resp, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *LabelHandler) ListLabels(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.List(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
