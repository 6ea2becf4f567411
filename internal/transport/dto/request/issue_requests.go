package request

import (
	"io"

	"github.com/niklvrr/issuetracker/internal/domain"
)

type CreateIssueRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	AssigneeId  *int64  `json:"assignee_id"`
}

type GetIssueRequest struct {
	IssueId int64
}

// UpdateIssueRequest частичное обновление: применяются только заданные поля
type UpdateIssueRequest struct {
	IssueId     int64                   `json:"-"`
	Version     *int                    `json:"version"`
	Title       domain.Optional[string] `json:"title"`
	Description domain.Optional[string] `json:"description"`
	Status      domain.Optional[string] `json:"status"`
	Priority    domain.Optional[string] `json:"priority"`
	AssigneeId  domain.Optional[int64]  `json:"assignee_id"`
}

type BulkStatusRequest struct {
	IssueIds []int64 `json:"issue_ids"`
	Status   string  `json:"status"`
}

type ReplaceLabelsRequest struct {
	IssueId int64    `json:"-"`
	Labels  []string `json:"labels"`
}

type ImportIssuesRequest struct {
	Filename    string
	ContentType string
	Body        io.Reader
}
