package request

type TopAssigneesRequest struct {
	Limit int
}
