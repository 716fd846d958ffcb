package masterdata

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sitelog/intake/internal/platform/httpx"
	"github.com/sitelog/intake/internal/rbac"
)

// Handler exposes reference entity endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers a collection route per kind (/materials, /drivers, ...).
func (h *Handler) MountRoutes(r chi.Router) {
	for _, kind := range Kinds {
		r.Route("/"+kind.Table(), func(r chi.Router) {
			r.With(rbac.RequireAuthenticated).Get("/", h.list(kind))
			r.With(rbac.RequireMenu(rbac.MenuEntry)).Post("/", h.create(kind))
		})
	}
}

func (h *Handler) list(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.serveList(w, r, kind)
	}
}

func (h *Handler) create(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.serveCreate(w, r, kind)
	}
}

func (h *Handler) serveList(w http.ResponseWriter, r *http.Request, kind Kind) {
	list, err := h.service.List(r.Context(), kind)
	if err != nil {
		h.logger.Error("list reference entities", slog.String("kind", string(kind)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) serveCreate(w http.ResponseWriter, r *http.Request, kind Kind) {
	var req CreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	entity, err := h.service.Create(r.Context(), kind, req)
	if err != nil {
		h.logger.Warn("create reference entity", slog.String("kind", string(kind)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, entity)
}
