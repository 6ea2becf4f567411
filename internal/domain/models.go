package domain

import "time"

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

const (
	TitleMinLen = 5
	TitleMaxLen = 200

	LabelNameMaxLen = 50

	EventLabelsUpdated = "labels updated"
)

type User struct {
	Id           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     *string   `json:"full_name"`
	MobileNumber *string   `json:"mobile_number"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

type Issue struct {
	Id          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	AssigneeId  *int64     `json:"assignee_id"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ResolvedAt  *time.Time `json:"resolved_at"`
}

// SetStatus меняет статус и поддерживает resolved_at:
// resolved проставляет текущее время, любой другой статус очищает его.
func (i *Issue) SetStatus(status Status, now time.Time) {
	i.Status = status
	if status == StatusResolved {
		t := now
		i.ResolvedAt = &t
		return
	}
	i.ResolvedAt = nil
}

type Label struct {
	Id    int64   `json:"id"`
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

type IssueEvent struct {
	Id        int64
	IssueId   int64
	EventType string
	OldValue  *string
	NewValue  *string
	CreatedAt time.Time
}

type Comment struct {
	Id        int64     `json:"id"`
	Content   string    `json:"content"`
	IssueId   int64     `json:"issue_id"`
	AuthorId  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}
