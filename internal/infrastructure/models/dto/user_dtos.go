package dto

type CreateUserDTO struct {
	Username     string
	Email        string
	FullName     *string
	MobileNumber *string
	PasswordHash string
}
