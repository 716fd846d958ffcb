package intake

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sitelog/intake/internal/jalali"
	"github.com/sitelog/intake/internal/masterdata"
	"github.com/sitelog/intake/internal/platform/httpx"
)

// Store persists entries.
type Store interface {
	List(ctx context.Context) ([]Entry, error)
	Create(ctx context.Context, e Entry) (Entry, error)
	Delete(ctx context.Context, id string) error
}

// References resolves the form's reference choices.
type References interface {
	Resolve(ctx context.Context, kind masterdata.Kind, ref masterdata.Ref, plate string) (string, error)
	Catalog(ctx context.Context) (masterdata.Catalog, error)
}

// MutationHook is told after entries change so derived views can refresh.
type MutationHook func(ctx context.Context)

// Service coordinates intake submission and listing.
type Service struct {
	store    Store
	refs     References
	logger   *slog.Logger
	onChange MutationHook
	newID    func() string
}

// NewService constructs a Service. onChange may be nil.
func NewService(store Store, refs References, logger *slog.Logger, onChange MutationHook) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		refs:     refs,
		logger:   logger,
		onChange: onChange,
		newID:    func() string { return uuid.NewString() },
	}
}

// List returns all entries, newest first.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	return s.store.List(ctx)
}

// Search lists entries matching the records screen query.
func (s *Service) Search(ctx context.Context, q SearchQuery) ([]Entry, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	cat, err := s.refs.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return Search(entries, cat, q), nil
}

// Submit validates and stores a delivery, creating any newly named
// reference entities first. now supplies the default entry date.
func (s *Service) Submit(ctx context.Context, req SubmitRequest, now time.Time) (Entry, error) {
	req.trim()
	if req.Unit == "" {
		req.Unit = DefaultUnit
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	fields := validateSubmit(req)
	date := jalali.FromTime(now)
	if req.EntryDate != "" {
		parsed, err := jalali.Parse(req.EntryDate)
		if err != nil {
			fields["entry_date"] = "jalali"
		}
		date = parsed
	}
	if len(fields) > 0 {
		return Entry{}, fields
	}

	ids := make(map[masterdata.Kind]string, len(masterdata.Kinds))
	refs := map[masterdata.Kind]masterdata.Ref{
		masterdata.KindMaterial: req.Material,
		masterdata.KindDriver:   req.Driver,
		masterdata.KindSupplier: req.Supplier,
		masterdata.KindProject:  req.Project,
	}
	for _, kind := range masterdata.Kinds {
		id, err := s.refs.Resolve(ctx, kind, refs[kind], req.PlateNumber)
		if err != nil {
			return Entry{}, err
		}
		ids[kind] = id
	}

	plate := req.PlateNumber
	if plate == "" && !req.Driver.IsNew() {
		cat, err := s.refs.Catalog(ctx)
		if err != nil {
			return Entry{}, err
		}
		if d, ok := cat.Driver(ids[masterdata.KindDriver]); ok {
			plate = d.DefaultPlate
		}
	}

	entry, err := s.store.Create(ctx, Entry{
		ID:          s.newID(),
		MaterialID:  ids[masterdata.KindMaterial],
		DriverID:    ids[masterdata.KindDriver],
		SupplierID:  ids[masterdata.KindSupplier],
		ProjectID:   ids[masterdata.KindProject],
		PlateNumber: plate,
		Tonnage:     req.Tonnage,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		EntryDate:   date.String(),
	})
	if err != nil {
		return Entry{}, err
	}
	s.logger.Info("entry recorded", slog.String("id", entry.ID), slog.Float64("tonnage", entry.Tonnage))
	s.changed(ctx)
	return entry, nil
}

// Delete removes an entry.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("entry deleted", slog.String("id", id))
	s.changed(ctx)
	return nil
}

func (s *Service) changed(ctx context.Context) {
	if s.onChange != nil {
		s.onChange(ctx)
	}
}

func validateSubmit(req SubmitRequest) httpx.FieldErrors {
	fields := httpx.FieldErrors{}
	if req.Material.IsBlank() {
		fields["material"] = "required"
	}
	if req.Driver.IsBlank() {
		fields["driver"] = "required"
	}
	if req.Supplier.IsBlank() {
		fields["supplier"] = "required"
	}
	if req.Project.IsBlank() {
		fields["project"] = "required"
	}
	if req.Tonnage <= 0 {
		fields["tonnage"] = "gt"
	}
	if req.Quantity < 0 {
		fields["quantity"] = "gte"
	}
	return fields
}
