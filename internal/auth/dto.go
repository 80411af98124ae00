package auth

import "github.com/osegura/ventapos-backend/internal/users"

// LoginRequest carries the credentials posted to the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the payload returned on a successful login.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	Roles       []string       `json:"roles"`
	User        *users.UserDTO `json:"user"`
}
