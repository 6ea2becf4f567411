package request

type CreateLabelRequest struct {
	Name  string  `json:"name"`
	Color *string `json:"color"`
}
