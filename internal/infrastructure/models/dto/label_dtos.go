package dto

type CreateLabelDTO struct {
	Name  string
	Color *string
}
