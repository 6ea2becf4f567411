package dto

import "time"

type CreateCommentDTO struct {
	IssueId   int64
	AuthorId  int64
	Content   string
	CreatedAt time.Time
}

type ListCommentsDTO struct {
	IssueId       int64
	AuthorId      *int64
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Ascending     bool
	Limit         int
	Offset        int
}
