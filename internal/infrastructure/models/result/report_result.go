package result

type TopAssignee struct {
	AssigneeId   int64
	AssigneeName *string
	IssueCount   int
}
