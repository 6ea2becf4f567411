package response

type TopAssigneeResponse struct {
	AssigneeId   int64   `json:"assignee_id"`
	AssigneeName *string `json:"assignee_name"`
	IssueCount   int     `json:"issue_count"`
}

type AverageLatencyResponse struct {
	AverageLatencyHours float64 `json:"average_latency_hours"`
}
