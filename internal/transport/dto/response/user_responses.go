package response

type UserResponse struct {
	Id           int64   `json:"id"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	FullName     *string `json:"full_name"`
	MobileNumber *string `json:"mobile_number"`
}
