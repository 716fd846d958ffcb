package invoice

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sitelog/intake/internal/intake"
	"github.com/sitelog/intake/internal/platform/httpx"
	"github.com/sitelog/intake/internal/rbac"
	"github.com/sitelog/intake/report"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Handler exposes statement endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	now     func() time.Time
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, now: time.Now}
}

// MountRoutes registers statement routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(rbac.RequireMenu(rbac.MenuInvoicing))
		r.Get("/preview", h.preview)
		r.Get("/pdf", h.pdf)
		r.Get("/xlsx", h.xlsx)
	})
}

// CriteriaFromQuery reads filter criteria from URL query parameters.
func CriteriaFromQuery(q url.Values) intake.Criteria {
	return intake.Criteria{
		ProjectID:   q.Get("project_id"),
		DriverID:    q.Get("driver_id"),
		MaterialID:  q.Get("material_id"),
		SupplierID:  q.Get("supplier_id"),
		PlateNumber: q.Get("plate_number"),
		FromDate:    q.Get("from_date"),
		ToDate:      q.Get("to_date"),
	}
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Preview(r.Context(), CriteriaFromQuery(r.URL.Query()), h.now())
	if err != nil {
		h.logger.Error("preview invoice", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) pdf(w http.ResponseWriter, r *http.Request) {
	doc, out, err := h.service.PDF(r.Context(), CriteriaFromQuery(r.URL.Query()), h.now())
	if err != nil {
		h.respondExportError(w, "render invoice pdf", err)
		return
	}
	httpx.Attachment(w, contentTypePDF, doc.Header.ReportNumber+".pdf", out)
}

func (h *Handler) xlsx(w http.ResponseWriter, r *http.Request) {
	doc, out, err := h.service.XLSX(r.Context(), CriteriaFromQuery(r.URL.Query()), h.now())
	if err != nil {
		h.respondExportError(w, "render invoice xlsx", err)
		return
	}
	httpx.Attachment(w, contentTypeXLSX, doc.Header.ReportNumber+".xlsx", out)
}

func (h *Handler) respondExportError(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, report.ErrUnavailable) {
		h.logger.Error(msg, slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Renderer Unavailable", "pdf renderer is not reachable")
		return
	}
	h.logger.Warn(msg, slog.Any("error", err))
	httpx.RespondError(w, err)
}
