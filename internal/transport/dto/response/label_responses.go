package response

import "github.com/niklvrr/issuetracker/internal/domain"

type LabelResponse struct {
	Id    int64   `json:"id"`
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

type LabelListResponse struct {
	Total  int             `json:"total"`
	Labels []LabelResponse `json:"labels"`
}

func NewLabelResponses(labels []*domain.Label) []LabelResponse {
	res := make([]LabelResponse, 0, len(labels))
	for _, l := range labels {
		res = append(res, LabelResponse{Id: l.Id, Name: l.Name, Color: l.Color})
	}
	return res
}

func NewLabelListResponse(labels []*domain.Label) *LabelListResponse {
	return &LabelListResponse{
		Total:  len(labels),
		Labels: NewLabelResponses(labels),
	}
}
