package users

import (
	"time"

	"github.com/osegura/ventapos-backend/pkg/db/models"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID           uint       `json:"id"`
	Username     string     `json:"username"`
	FullName     string     `json:"full_name"`
	IsActive     bool       `json:"is_active"`
	LastAccessAt *time.Time `json:"last_access_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Username     string
	FullName     string
	PasswordHash string
	IsActive     *bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		IsActive:     u.IsActive,
		LastAccessAt: u.LastAccessAt,
		CreatedAt:    u.CreatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	return &models.User{
		Username:     c.Username,
		FullName:     c.FullName,
		PasswordHash: c.PasswordHash,
		IsActive:     isActive,
	}
}
