package repository

import (
	"context"

	"github.com/niklvrr/issuetracker/internal/domain"
	"go.uber.org/zap"
)

const insertIssueEventQuery = `
INSERT INTO issue_events (issue_id, event_type, old_value, new_value, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id;`

// EventRepository только дописывает журнал, событий на чтение и изменение нет
type EventRepository struct {
	db  queryExecutor
	log *zap.Logger
}

func NewEventRepository(db queryExecutor, log *zap.Logger) *EventRepository {
	return &EventRepository{
		db:  db,
		log: log,
	}
}

func (r *EventRepository) Append(ctx context.Context, e *domain.IssueEvent) error {
	err := r.db.QueryRow(ctx, insertIssueEventQuery,
		e.IssueId,
		e.EventType,
		e.OldValue,
		e.NewValue,
		e.CreatedAt,
	).Scan(&e.Id)
	if err != nil {
		r.log.Error("failed to append issue event",
			zap.Int64("issue_id", e.IssueId),
			zap.String("event_type", e.EventType),
			zap.Error(err),
		)
		return handleDBError(err)
	}

	r.log.Debug("issue event appended",
		zap.Int64("issue_id", e.IssueId),
		zap.Int64("event_id", e.Id),
		zap.String("event_type", e.EventType),
	)
	return nil
}
