package service

import (
	"context"
	"testing"

	"github.com/niklvrr/issuetracker/internal/infrastructure/models/result"
	"github.com/niklvrr/issuetracker/internal/transport/dto/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReportService_TopAssignees(t *testing.T) {
	st := newFakeStorage()
	service := NewReportService(st, zap.NewNop())

	st.reports.On("TopAssignees", mock.Anything, 100).
		Return([]result.TopAssignee{{AssigneeId: 1, AssigneeName: ptr("Alice"), IssueCount: 7}}, nil)

	res, err := service.TopAssignees(context.Background(), &request.TopAssigneesRequest{})

	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, 7, res[0].IssueCount)

	_, err = service.TopAssignees(context.Background(), &request.TopAssigneesRequest{Limit: -3})
	assertCode(t, err, CodeInvalidInput)
}

func TestReportService_AverageLatency(t *testing.T) {
	st := newFakeStorage()
	service := NewReportService(st, zap.NewNop())

	st.reports.On("AverageResolutionSeconds", mock.Anything).Return(ptr(5400.0), nil).Once()
	st.reports.On("AverageResolutionSeconds", mock.Anything).Return(nil, nil).Once()

	resp, err := service.AverageLatency(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.5, resp.AverageLatencyHours)

	resp, err = service.AverageLatency(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.AverageLatencyHours)
}
