package response

import (
	"time"

	"github.com/niklvrr/issuetracker/internal/domain"
)

type IssueResponse struct {
	Id          int64           `json:"id"`
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	Status      string          `json:"status"`
	Priority    string          `json:"priority"`
	AssigneeId  *int64          `json:"assignee_id"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	ResolvedAt  *time.Time      `json:"resolved_at"`
	Labels      []LabelResponse `json:"labels,omitempty"`
}

func NewIssueResponse(issue *domain.Issue) *IssueResponse {
	return &IssueResponse{
		Id:          issue.Id,
		Title:       issue.Title,
		Description: issue.Description,
		Status:      string(issue.Status),
		Priority:    string(issue.Priority),
		AssigneeId:  issue.AssigneeId,
		Version:     issue.Version,
		CreatedAt:   issue.CreatedAt,
		UpdatedAt:   issue.UpdatedAt,
		ResolvedAt:  issue.ResolvedAt,
	}
}

type CreateIssueResponse struct {
	Message string         `json:"message"`
	Issue   *IssueResponse `json:"issue"`
}

type BulkStatusResponse struct {
	UpdatedCount int     `json:"updated_count"`
	IssueIds     []int64 `json:"issue_ids"`
}

type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportIssuesResponse struct {
	ImportId      string           `json:"import_id"`
	TotalRows     int              `json:"total_rows"`
	CreatedIssues int              `json:"created_issues"`
	FailedRows    int              `json:"failed_rows"`
	Errors        []ImportRowError `json:"errors"`
}
