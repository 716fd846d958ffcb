// Package auth signs users in by username, checking a password when the
// account has one.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/sitelog/intake/internal/platform/httpx"
	"github.com/sitelog/intake/internal/users"
)

// ErrInvalidCredentials indicates login failure.
var ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", httpx.ErrUnauthorized)

// Directory looks up accounts.
type Directory interface {
	FindByUsername(ctx context.Context, username string) (users.User, error)
	Get(ctx context.Context, id string) (users.User, error)
}

// Service wraps authentication business rules.
type Service struct {
	users Directory
}

// NewService constructs a new Service.
func NewService(dir Directory) *Service {
	return &Service{users: dir}
}

// Authenticate validates a username and, for accounts that have one, a password.
func (s *Service) Authenticate(ctx context.Context, username, password string) (users.User, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return users.User{}, ErrInvalidCredentials
		}
		return users.User{}, err
	}
	if u.HasPassword() {
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
			return users.User{}, ErrInvalidCredentials
		}
	}
	return u, nil
}

// Current returns the account behind a session's user id.
func (s *Service) Current(ctx context.Context, id string) (users.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return users.User{}, httpx.ErrUnauthorized
		}
		return users.User{}, err
	}
	return u, nil
}
