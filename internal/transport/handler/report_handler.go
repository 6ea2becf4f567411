package handler

import (
	"context"
	"net/http"

	"github.com/niklvrr/issuetracker/internal/transport/dto/request"
	"github.com/niklvrr/issuetracker/internal/transport/dto/response"
	"go.uber.org/zap"
)

type ReportService interface {
	TopAssignees(ctx context.Context, req *request.TopAssigneesRequest) ([]response.TopAssigneeResponse, error)
	AverageLatency(ctx context.Context) (*response.AverageLatencyResponse, error)
}

type ReportHandler struct {
	svc ReportService
	log *zap.Logger
}

func NewReportHandler(svc ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{
		svc: svc,
		log: log,
	}
}

func (h *ReportHandler) TopAssignees(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeErr(w, err)
		return
	}

	resp, err := h.svc.TopAssignees(r.Context(), &request.TopAssigneesRequest{Limit: limit})
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *ReportHandler) AverageLatency(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.AverageLatency(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
