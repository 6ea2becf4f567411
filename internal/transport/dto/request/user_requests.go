package request

type CreateUserRequest struct {
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	FullName     *string `json:"full_name"`
	MobileNumber *string `json:"mobile_number"`
	Password     string  `json:"password"`
}

type GetUserRequest struct {
	UserId int64
}
