package request

import "time"

type CreateCommentRequest struct {
	IssueId  int64  `json:"-"`
	Content  string `json:"content"`
	AuthorId *int64 `json:"author_id"`
}

type GetCommentRequest struct {
	IssueId   int64
	CommentId int64
}

type ListCommentsRequest struct {
	IssueId       int64
	AuthorId      *int64
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Page          int
	PageSize      int
	SortOrder     string
}
