package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sitelog/intake/internal/platform/httpx"
	"github.com/sitelog/intake/internal/rbac"
)

// ErrLastSuperAdmin blocks removing the only remaining super admin.
var ErrLastSuperAdmin = fmt.Errorf("users: last super admin: %w", httpx.ErrForbidden)

// ErrSelfDelete blocks users from removing their own account.
var ErrSelfDelete = fmt.Errorf("users: cannot delete own account: %w", httpx.ErrForbidden)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	List(ctx context.Context) ([]User, error)
	FindByUsername(ctx context.Context, username string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, u User) (User, error)
	Delete(ctx context.Context, id string) error
	CountRole(ctx context.Context, role rbac.Role) (int, error)
}

// Service handles user business logic.
type Service struct {
	repo     RepositoryPort
	validate *validator.Validate
	newID    func() string
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, validate: validator.New(), newID: func() string { return uuid.NewString() }}
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Get returns the user with id.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// FindByUsername returns the user with username.
func (s *Service) FindByUsername(ctx context.Context, username string) (User, error) {
	return s.repo.FindByUsername(ctx, strings.TrimSpace(username))
}

// Create adds an account. A password is optional; when given it is stored as a bcrypt hash.
func (s *Service) Create(ctx context.Context, req CreateRequest) (User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Username = strings.TrimSpace(req.Username)
	req.Role = strings.ToUpper(strings.TrimSpace(req.Role))
	if err := httpx.Validate(s.validate, req); err != nil {
		return User{}, err
	}
	role, _ := rbac.ParseRole(req.Role)

	if _, err := s.repo.FindByUsername(ctx, req.Username); err == nil {
		return User{}, fmt.Errorf("users: username %q: %w", req.Username, httpx.ErrDuplicate)
	} else if !errors.Is(err, httpx.ErrNotFound) {
		return User{}, err
	}

	u := User{ID: s.newID(), Name: req.Name, Username: req.Username, Role: role}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, fmt.Errorf("users: hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}
	return s.repo.Create(ctx, u)
}

// Delete removes the account id on behalf of actorID.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return ErrSelfDelete
	}
	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if target.Role == rbac.RoleSuperAdmin {
		n, err := s.repo.CountRole(ctx, rbac.RoleSuperAdmin)
		if err != nil {
			return err
		}
		if n <= 1 {
			return ErrLastSuperAdmin
		}
	}
	return s.repo.Delete(ctx, id)
}
