package repository

import (
	"context"

	"github.com/niklvrr/issuetracker/internal/infrastructure/models/result"
	"go.uber.org/zap"
)

const (
	topAssigneesQuery = `
SELECT u.id, u.username, COUNT(i.id) AS issue_count
FROM users u
JOIN issues i ON i.assignee_id = u.id
GROUP BY u.id, u.username
ORDER BY issue_count DESC, u.id
LIMIT $1;`

	averageResolutionQuery = `
SELECT AVG(EXTRACT(EPOCH FROM (resolved_at - created_at)))::float8
FROM issues
WHERE resolved_at IS NOT NULL;`
)

type ReportRepository struct {
	db  queryExecutor
	log *zap.Logger
}

func NewReportRepository(db queryExecutor, log *zap.Logger) *ReportRepository {
	return &ReportRepository{
		db:  db,
		log: log,
	}
}

func (r *ReportRepository) TopAssignees(ctx context.Context, limit int) ([]result.TopAssignee, error) {
	rows, err := r.db.Query(ctx, topAssigneesQuery, limit)
	if err != nil {
		r.log.Error("failed to load top assignees", zap.Error(err))
		return nil, handleDBError(err)
	}
	defer rows.Close()

	stats := make([]result.TopAssignee, 0)
	for rows.Next() {
		var s result.TopAssignee
		if err := rows.Scan(&s.AssigneeId, &s.AssigneeName, &s.IssueCount); err != nil {
			return nil, handleDBError(err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, handleDBError(err)
	}
	return stats, nil
}

// AverageResolutionSeconds возвращает nil, если решённых задач нет
func (r *ReportRepository) AverageResolutionSeconds(ctx context.Context) (*float64, error) {
	var avg *float64
	if err := r.db.QueryRow(ctx, averageResolutionQuery).Scan(&avg); err != nil {
		r.log.Error("failed to compute average resolution time", zap.Error(err))
		return nil, handleDBError(err)
	}
	return avg, nil
}
