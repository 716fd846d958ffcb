package announcements

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sitelog/intake/internal/platform/httpx"
	"github.com/sitelog/intake/internal/rbac"
)

// Handler exposes announcement endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	now     func() time.Time
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, now: time.Now}
}

// MountRoutes registers announcement routes. Publishing lives with the
// settings screen.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(rbac.RequireAuthenticated).Get("/", h.list)
	r.Group(func(r chi.Router) {
		r.Use(rbac.RequireMenu(rbac.MenuSettings))
		r.Post("/", h.post)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	p, _ := rbac.PrincipalFromContext(r.Context())
	var (
		list []Announcement
		err  error
	)
	if rbac.Allowed(p.Role, rbac.MenuSettings) {
		list, err = h.service.List(r.Context())
	} else {
		list, err = h.service.ListFor(r.Context(), p.Role)
	}
	if err != nil {
		h.logger.Error("list announcements", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) post(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	a, err := h.service.Post(r.Context(), req, h.now())
	if err != nil {
		h.logger.Warn("post announcement", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, a)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
