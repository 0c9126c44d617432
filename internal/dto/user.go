package dto

import "commerce/internal/models"

// UserResponse is the client-facing shape of a user. The password hash
// never leaves the service boundary.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NewUserResponse projects a user into its response shape.
func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// LoginResponse carries the issued token together with the user it
// belongs to.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
