package response

type UserResponseDTO struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type LoginResponseDTO struct {
	Token string `json:"token"`
}
