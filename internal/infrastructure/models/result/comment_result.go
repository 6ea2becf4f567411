package result

import "github.com/niklvrr/issuetracker/internal/domain"

type CommentPage struct {
	Total    int
	Comments []*domain.Comment
}
