// Package announcements posts notices targeted at user roles.
package announcements

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/sitelog/intake/internal/jalali"
	"github.com/sitelog/intake/internal/platform/db"
	"github.com/sitelog/intake/internal/platform/httpx"
	"github.com/sitelog/intake/internal/rbac"
)

// Announcement is a notice shown on the dashboards of its target roles.
type Announcement struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	Date        string      `json:"date"`
	TargetRoles []rbac.Role `json:"target_roles"`
	CreatedAt   time.Time   `json:"created_at"`
}

// PostRequest is the payload for publishing an announcement.
type PostRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Content     string   `json:"content" validate:"max=4000"`
	TargetRoles []string `json:"target_roles" validate:"required,min=1"`
}

// VisibleTo keeps the announcements that target role, preserving order.
func VisibleTo(list []Announcement, role rbac.Role) []Announcement {
	out := make([]Announcement, 0, len(list))
	for _, a := range list {
		for _, r := range a.TargetRoles {
			if r == role {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

// Repository persists announcements.
type Repository struct {
	db db.Querier
}

// NewRepository constructs a repository.
func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

// List returns every announcement, newest first.
func (r *Repository) List(ctx context.Context) ([]Announcement, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, content, date, target_roles, created_at FROM announcements ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("announcements: list: %w", err)
	}
	defer rows.Close()

	list := make([]Announcement, 0)
	for rows.Next() {
		var (
			a     Announcement
			roles []string
		)
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.Date, &roles, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("announcements: scan: %w", err)
		}
		a.TargetRoles = toRoles(roles)
		list = append(list, a)
	}
	return list, rows.Err()
}

// Create stores a.
func (r *Repository) Create(ctx context.Context, a Announcement) error {
	roles := make([]string, 0, len(a.TargetRoles))
	for _, role := range a.TargetRoles {
		roles = append(roles, string(role))
	}
	_, err := r.db.Exec(ctx, `INSERT INTO announcements (id, title, content, date, target_roles, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`, a.ID, a.Title, a.Content, a.Date, roles, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("announcements: insert: %w", err)
	}
	return nil
}

// Delete removes the announcement with id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("announcements: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("announcements: %s: %w", id, httpx.ErrNotFound)
	}
	return nil
}

func toRoles(raw []string) []rbac.Role {
	roles := make([]rbac.Role, 0, len(raw))
	for _, s := range raw {
		if role, ok := rbac.ParseRole(s); ok {
			roles = append(roles, role)
		}
	}
	return roles
}

// Store is the persistence contract used by Service.
type Store interface {
	List(ctx context.Context) ([]Announcement, error)
	Create(ctx context.Context, a Announcement) error
	Delete(ctx context.Context, id string) error
}

// Service validates and publishes announcements.
type Service struct {
	store    Store
	validate *validator.Validate
	onChange func(ctx context.Context)
	newID    func() string
}

// NewService constructs a Service. onChange may be nil.
func NewService(store Store, onChange func(ctx context.Context)) *Service {
	return &Service{
		store:    store,
		validate: validator.New(),
		onChange: onChange,
		newID:    func() string { return uuid.NewString() },
	}
}

// List returns all announcements, newest first.
func (s *Service) List(ctx context.Context) ([]Announcement, error) {
	return s.store.List(ctx)
}

// ListFor returns the announcements targeting role.
func (s *Service) ListFor(ctx context.Context, role rbac.Role) ([]Announcement, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return VisibleTo(list, role), nil
}

// Post publishes an announcement dated with the Jalali day of now.
func (s *Service) Post(ctx context.Context, req PostRequest, now time.Time) (Announcement, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if err := httpx.Validate(s.validate, req); err != nil {
		return Announcement{}, err
	}
	roles := make([]rbac.Role, 0, len(req.TargetRoles))
	for _, raw := range req.TargetRoles {
		role, ok := rbac.ParseRole(raw)
		if !ok {
			return Announcement{}, httpx.FieldErrors{"target_roles": "oneof"}
		}
		roles = append(roles, role)
	}

	a := Announcement{
		ID:          s.newID(),
		Title:       req.Title,
		Content:     req.Content,
		Date:        jalali.FromTime(now).String(),
		TargetRoles: roles,
		CreatedAt:   now.UTC(),
	}
	if err := s.store.Create(ctx, a); err != nil {
		return Announcement{}, err
	}
	s.changed(ctx)
	return a, nil
}

// Delete removes an announcement.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

func (s *Service) changed(ctx context.Context) {
	if s.onChange != nil {
		s.onChange(ctx)
	}
}
