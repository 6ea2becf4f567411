package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssue_SetStatus_ResolvedStampsTime(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issue := &Issue{Status: StatusOpen}

	issue.SetStatus(StatusResolved, now)

	assert.Equal(t, StatusResolved, issue.Status)
	require.NotNil(t, issue.ResolvedAt)
	assert.True(t, issue.ResolvedAt.Equal(now))
}

func TestIssue_SetStatus_OtherStatusClearsTime(t *testing.T) {
	now := time.Now()
	for _, status := range []Status{StatusOpen, StatusInProgress, StatusClosed} {
		resolved := now.Add(-time.Hour)
		issue := &Issue{Status: StatusResolved, ResolvedAt: &resolved}

		issue.SetStatus(status, now)

		assert.Equal(t, status, issue.Status)
		assert.Nil(t, issue.ResolvedAt, "status %s must clear resolved_at", status)
	}
}

func TestStatusAndPriority_Valid(t *testing.T) {
	assert.True(t, StatusInProgress.Valid())
	assert.False(t, Status("done").Valid())
	assert.True(t, PriorityCritical.Valid())
	assert.False(t, Priority("urgent").Valid())
}

func TestOptional_UnmarshalJSON(t *testing.T) {
	var patch struct {
		Title       Optional[string] `json:"title"`
		Description Optional[string] `json:"description"`
		AssigneeId  Optional[int64]  `json:"assignee_id"`
	}

	err := json.Unmarshal([]byte(`{"description":"","assignee_id":null}`), &patch)
	require.NoError(t, err)

	assert.False(t, patch.Title.Set)
	assert.True(t, patch.Description.Set)
	assert.Equal(t, "", patch.Description.Value)
	assert.False(t, patch.AssigneeId.Set)
}

func TestNormalizeLabelName(t *testing.T) {
	assert.Equal(t, "bug", NormalizeLabelName("  Bug "))
	assert.Equal(t, "urgent", NormalizeLabelName("URGENT"))
}

func TestLabelSnapshot(t *testing.T) {
	assert.Equal(t, "", LabelSnapshot(nil))
	assert.Equal(t, "bug, urgent", LabelSnapshot([]*Label{{Name: "bug"}, {Name: "urgent"}}))
}
