package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/sitelog/intake/internal/intake"
	"github.com/sitelog/intake/internal/platform/httpx"
	"github.com/sitelog/intake/internal/state"
)

// ErrNoMatches rejects generating a statement for an empty selection.
var ErrNoMatches = fmt.Errorf("invoice: no entries match the filters: %w", httpx.ErrValidation)

// SnapshotLoader provides fresh application snapshots.
type SnapshotLoader interface {
	Load(ctx context.Context) (*state.Snapshot, error)
}

// Service prepares and exports statements.
type Service struct {
	loader    SnapshotLoader
	templates TemplateRenderer
	pdf       PDFRenderer
}

// NewService constructs a Service.
func NewService(loader SnapshotLoader, templates TemplateRenderer, pdf PDFRenderer) *Service {
	return &Service{loader: loader, templates: templates, pdf: pdf}
}

// Preview assembles the statement for criteria, allowing an empty result.
func (s *Service) Preview(ctx context.Context, criteria intake.Criteria, now time.Time) (Document, error) {
	snap, err := s.loader.Load(ctx)
	if err != nil {
		return Document{}, err
	}
	matched := intake.Filter(snap.Entries, criteria)
	return Assemble(matched, snap.Catalog, snap.Settings, criteria, NewMeta(now)), nil
}

// Generate assembles the statement for criteria and fails when nothing matches.
func (s *Service) Generate(ctx context.Context, criteria intake.Criteria, now time.Time) (Document, error) {
	doc, err := s.Preview(ctx, criteria, now)
	if err != nil {
		return Document{}, err
	}
	if doc.IsEmpty() {
		return Document{}, ErrNoMatches
	}
	return doc, nil
}

// PDF generates the statement and renders it to PDF.
func (s *Service) PDF(ctx context.Context, criteria intake.Criteria, now time.Time) (Document, []byte, error) {
	doc, err := s.Generate(ctx, criteria, now)
	if err != nil {
		return Document{}, nil, err
	}
	out, err := RenderPDF(ctx, s.templates, s.pdf, doc)
	if err != nil {
		return Document{}, nil, err
	}
	return doc, out, nil
}

// XLSX generates the statement as a spreadsheet.
func (s *Service) XLSX(ctx context.Context, criteria intake.Criteria, now time.Time) (Document, []byte, error) {
	doc, err := s.Generate(ctx, criteria, now)
	if err != nil {
		return Document{}, nil, err
	}
	out, err := WriteXLSX(doc)
	if err != nil {
		return Document{}, nil, err
	}
	return doc, out, nil
}
