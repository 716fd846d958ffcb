// Package dashboard computes the landing screen figures.
package dashboard

import (
	"context"
	"time"

	"github.com/sitelog/intake/internal/announcements"
	"github.com/sitelog/intake/internal/intake"
	"github.com/sitelog/intake/internal/jalali"
	"github.com/sitelog/intake/internal/rbac"
	"github.com/sitelog/intake/internal/state"
)

// RecentLimit is how many of the newest deliveries the dashboard lists.
const RecentLimit = 5

// SnapshotLoader provides fresh application snapshots.
type SnapshotLoader interface {
	Load(ctx context.Context) (*state.Snapshot, error)
}

// Display holds the summary figures formatted for the screen.
type Display struct {
	TotalTonnage      string `json:"total_tonnage"`
	DeliveryCount     string `json:"delivery_count"`
	ProjectCount      string `json:"project_count"`
	MaterialTypeCount string `json:"material_type_count"`
}

// RecentDelivery is a newest-first delivery with its names resolved.
type RecentDelivery struct {
	intake.Entry
	MaterialName string `json:"material_name"`
	DriverName   string `json:"driver_name"`
	ProjectName  string `json:"project_name"`
	TonnageText  string `json:"tonnage_text"`
	DateText     string `json:"date_text"`
}

// View is the dashboard payload for one role.
type View struct {
	Today             string                       `json:"today"`
	Summary           intake.Summary               `json:"summary"`
	Display           Display                      `json:"display"`
	TonnageByMaterial []intake.MaterialTonnage     `json:"tonnage_by_material"`
	Recent            []RecentDelivery             `json:"recent"`
	Announcements     []announcements.Announcement `json:"announcements"`
}

// data is the role-independent part of View that gets cached.
type data struct {
	Summary           intake.Summary               `json:"summary"`
	Display           Display                      `json:"display"`
	TonnageByMaterial []intake.MaterialTonnage     `json:"tonnage_by_material"`
	Recent            []RecentDelivery             `json:"recent"`
	Announcements     []announcements.Announcement `json:"announcements"`
}

// Service builds dashboard views.
type Service struct {
	loader SnapshotLoader
	cache  *Cache
}

// NewService constructs a Service. cache may be nil.
func NewService(loader SnapshotLoader, cache *Cache) *Service {
	return &Service{loader: loader, cache: cache}
}

// Build returns the dashboard for role as of now.
func (s *Service) Build(ctx context.Context, role rbac.Role, now time.Time) (View, error) {
	key, err := s.cache.Key(ctx, "data")
	if err != nil {
		return View{}, err
	}
	d, err := Fetch(ctx, s.cache, key, s.compute)
	if err != nil {
		return View{}, err
	}
	return View{
		Today:             jalali.FromTime(now).Localized(),
		Summary:           d.Summary,
		Display:           d.Display,
		TonnageByMaterial: d.TonnageByMaterial,
		Recent:            d.Recent,
		Announcements:     announcements.VisibleTo(d.Announcements, role),
	}, nil
}

// Warm recomputes and stores the dashboard for the current cache version.
func (s *Service) Warm(ctx context.Context) error {
	key, err := s.cache.Key(ctx, "data")
	if err != nil {
		return err
	}
	d, err := s.compute(ctx)
	if err != nil {
		return err
	}
	return s.cache.Store(ctx, key, d)
}

// Invalidate drops cached dashboards.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func (s *Service) compute(ctx context.Context) (data, error) {
	snap, err := s.loader.Load(ctx)
	if err != nil {
		return data{}, err
	}
	return summarize(snap), nil
}

func summarize(snap *state.Snapshot) data {
	cat := snap.Catalog
	summary := intake.Summarize(snap.Entries, cat.Materials, cat.Projects)

	recent := intake.Recent(snap.Entries, RecentLimit)
	rows := make([]RecentDelivery, 0, len(recent))
	for _, e := range recent {
		rows = append(rows, RecentDelivery{
			Entry:        e,
			MaterialName: cat.MaterialName(e.MaterialID),
			DriverName:   cat.DriverName(e.DriverID),
			ProjectName:  cat.ProjectName(e.ProjectID),
			TonnageText:  jalali.ToLocalizedDigits(e.Tonnage),
			DateText:     jalali.ToLocalizedDigits(e.EntryDate),
		})
	}

	return data{
		Summary: summary,
		Display: Display{
			TotalTonnage:      jalali.FormatNumber(summary.TotalTonnage) + " تن",
			DeliveryCount:     jalali.ToLocalizedDigits(summary.DeliveryCount),
			ProjectCount:      jalali.ToLocalizedDigits(summary.ProjectCount),
			MaterialTypeCount: jalali.ToLocalizedDigits(summary.MaterialTypeCount),
		},
		TonnageByMaterial: intake.TonnageByMaterial(snap.Entries, cat.Materials),
		Recent:            rows,
		Announcements:     snap.Announcements,
	}
}
