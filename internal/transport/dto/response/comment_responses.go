package response

import "github.com/niklvrr/issuetracker/internal/domain"

type CommentListResponse struct {
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Comments []*domain.Comment `json:"comments"`
}
