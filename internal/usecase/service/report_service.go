package service

import (
	"context"
	"math"

	"github.com/niklvrr/issuetracker/internal/infrastructure/repository"
	"github.com/niklvrr/issuetracker/internal/transport/dto/request"
	"github.com/niklvrr/issuetracker/internal/transport/dto/response"
	"go.uber.org/zap"
)

const defaultTopAssigneesLimit = 100

type ReportService struct {
	storage repository.Storage
	log     *zap.Logger
}

func NewReportService(storage repository.Storage, log *zap.Logger) *ReportService {
	return &ReportService{
		storage: storage,
		log:     log,
	}
}

func (s *ReportService) TopAssignees(ctx context.Context, req *request.TopAssigneesRequest) ([]response.TopAssigneeResponse, error) {
	limit := req.Limit
	if limit == 0 {
		limit = defaultTopAssigneesLimit
	}
	if limit < 1 {
		return nil, invalidInput("limit must be >= 1")
	}

	rows, err := s.storage.Stores().Reports().TopAssignees(ctx, limit)
	if err != nil {
		s.log.Error("failed to build top assignees report", zap.Error(err))
		return nil, WrapError(ErrInternal, err)
	}

	res := make([]response.TopAssigneeResponse, 0, len(rows))
	for _, r := range rows {
		res = append(res, response.TopAssigneeResponse{
			AssigneeId:   r.AssigneeId,
			AssigneeName: r.AssigneeName,
			IssueCount:   r.IssueCount,
		})
	}
	return res, nil
}

// AverageLatency среднее время от создания до решения в часах, 0 если решённых задач нет
func (s *ReportService) AverageLatency(ctx context.Context) (*response.AverageLatencyResponse, error) {
	seconds, err := s.storage.Stores().Reports().AverageResolutionSeconds(ctx)
	if err != nil {
		s.log.Error("failed to build average latency report", zap.Error(err))
		return nil, WrapError(ErrInternal, err)
	}

	hours := 0.0
	if seconds != nil {
		hours = math.Round(*seconds/3600*100) / 100
	}
	return &response.AverageLatencyResponse{AverageLatencyHours: hours}, nil
}
