package repository

import (
	"testing"
	"time"

	"github.com/niklvrr/issuetracker/internal/infrastructure/models/dto"
	"github.com/stretchr/testify/assert"
)

func TestCommentFilter_IssueOnly(t *testing.T) {
	where, args := commentFilter(&dto.ListCommentsDTO{IssueId: 7})

	assert.Equal(t, "issue_id = $1", where)
	assert.Equal(t, []any{int64(7)}, args)
}

func TestCommentFilter_AllFilters(t *testing.T) {
	author := int64(3)
	after := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	before := after.Add(24 * time.Hour)

	where, args := commentFilter(&dto.ListCommentsDTO{
		IssueId:       7,
		AuthorId:      &author,
		CreatedAfter:  &after,
		CreatedBefore: &before,
	})

	assert.Equal(t, "issue_id = $1 AND author_id = $2 AND created_at >= $3 AND created_at <= $4", where)
	assert.Equal(t, []any{int64(7), int64(3), after, before}, args)
}
