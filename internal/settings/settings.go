// Package settings stores the single row of branding and invoice settings.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"

	"github.com/sitelog/intake/internal/platform/db"
	"github.com/sitelog/intake/internal/platform/httpx"
	"github.com/sitelog/intake/internal/rbac"
)

// Currency is the label printed next to monetary amounts.
const Currency = "تومان"

// Settings is the organisation's branding and invoice configuration.
type Settings struct {
	CompanyName         string `json:"company_name" validate:"required,max=200"`
	LogoURL             string `json:"logo_url" validate:"omitempty,url"`
	InvoicePrimaryColor string `json:"invoice_primary_color" validate:"required,hexcolor"`
	HeaderText          string `json:"header_text" validate:"max=500"`
	FooterText          string `json:"footer_text" validate:"max=2000"`
	ContactInfo         string `json:"contact_info" validate:"max=500"`
	Currency            string `json:"currency" validate:"-"`
}

// Defaults mirrors the row seeded by the initial migration.
func Defaults() Settings {
	return Settings{
		CompanyName:         "شرکت ساختمانی نمونه",
		InvoicePrimaryColor: "#1e40af",
		HeaderText:          "برگه تحویل",
		FooterText:          "توضیحات پیش فرض",
		ContactInfo:         "آدرس نمونه",
		Currency:            Currency,
	}
}

// Repository reads and writes the settings row.
type Repository struct {
	db db.Querier
}

// NewRepository constructs a repository.
func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

// Get loads the settings row.
func (r *Repository) Get(ctx context.Context) (Settings, error) {
	var s Settings
	err := r.db.QueryRow(ctx, `SELECT company_name, logo_url, invoice_primary_color, header_text, footer_text, contact_info
FROM settings WHERE id = 1`).Scan(&s.CompanyName, &s.LogoURL, &s.InvoicePrimaryColor, &s.HeaderText, &s.FooterText, &s.ContactInfo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Defaults(), nil
		}
		return Settings{}, fmt.Errorf("settings: get: %w", err)
	}
	s.Currency = Currency
	return s, nil
}

// Save upserts the settings row.
func (r *Repository) Save(ctx context.Context, s Settings) error {
	_, err := r.db.Exec(ctx, `INSERT INTO settings (id, company_name, logo_url, invoice_primary_color, header_text, footer_text, contact_info)
VALUES (1, $1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
    company_name = EXCLUDED.company_name,
    logo_url = EXCLUDED.logo_url,
    invoice_primary_color = EXCLUDED.invoice_primary_color,
    header_text = EXCLUDED.header_text,
    footer_text = EXCLUDED.footer_text,
    contact_info = EXCLUDED.contact_info`,
		s.CompanyName, s.LogoURL, s.InvoicePrimaryColor, s.HeaderText, s.FooterText, s.ContactInfo)
	if err != nil {
		return fmt.Errorf("settings: save: %w", err)
	}
	return nil
}

// Store is the persistence contract used by Service.
type Store interface {
	Get(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}

// Service validates settings updates.
type Service struct {
	store    Store
	validate *validator.Validate
	onChange func(ctx context.Context)
}

// NewService constructs a Service. onChange runs after a successful update and may be nil.
func NewService(store Store, onChange func(ctx context.Context)) *Service {
	return &Service{store: store, validate: validator.New(), onChange: onChange}
}

// Get returns the current settings.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	return s.store.Get(ctx)
}

// Update replaces the settings after validation.
func (s *Service) Update(ctx context.Context, in Settings) (Settings, error) {
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.LogoURL = strings.TrimSpace(in.LogoURL)
	in.InvoicePrimaryColor = strings.TrimSpace(in.InvoicePrimaryColor)
	in.Currency = Currency
	if err := httpx.Validate(s.validate, in); err != nil {
		return Settings{}, err
	}
	if err := s.store.Save(ctx, in); err != nil {
		return Settings{}, err
	}
	if s.onChange != nil {
		s.onChange(ctx)
	}
	return in, nil
}

// Handler exposes the settings endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers settings routes. Reading is open to any signed-in
// user because invoices and the layout header need the branding.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(rbac.RequireAuthenticated).Get("/", h.get)
	r.With(rbac.RequireMenu(rbac.MenuSettings)).Put("/", h.update)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Get(r.Context())
	if err != nil {
		h.logger.Error("get settings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var in Settings
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	s, err := h.service.Update(r.Context(), in)
	if err != nil {
		h.logger.Warn("update settings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}
