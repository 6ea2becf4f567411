package dto

import (
	"time"

	"github.com/niklvrr/issuetracker/internal/domain"
)

type CreateIssueDTO struct {
	Title       string
	Description *string
	Priority    domain.Priority
	AssigneeId  *int64
	CreatedAt   time.Time
}
