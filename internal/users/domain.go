// Package users manages the accounts that may sign in.
package users

import (
	"time"

	"github.com/sitelog/intake/internal/rbac"
)

// User is an account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Role         rbac.Role `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasPassword reports whether sign-in requires a password.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}

// CreateRequest is the payload for adding an account.
type CreateRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Username string `json:"username" validate:"required,max=64,excludesall= "`
	Role     string `json:"role" validate:"required,oneof=SUPER_ADMIN ADMIN MANAGER OPERATOR VIEWER"`
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
}
