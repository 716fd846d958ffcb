package masterdata

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sitelog/intake/internal/platform/httpx"
)

// Store is the persistence contract used by Service.
type Store interface {
	List(ctx context.Context, kind Kind) ([]Entity, error)
	FindByName(ctx context.Context, kind Kind, name string) (Entity, error)
	Create(ctx context.Context, kind Kind, e Entity) (Entity, error)
}

// Service validates and resolves reference entities.
type Service struct {
	store    Store
	validate *validator.Validate
	newID    func() string
	onChange func(ctx context.Context)
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{
		store:    store,
		validate: validator.New(),
		newID:    func() string { return uuid.NewString() },
	}
}

// Notify registers fn to run after a new entity is stored.
func (s *Service) Notify(fn func(ctx context.Context)) {
	s.onChange = fn
}

// List returns every entity of kind, newest first.
func (s *Service) List(ctx context.Context, kind Kind) ([]Entity, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("masterdata: kind %q: %w", kind, httpx.ErrNotFound)
	}
	return s.store.List(ctx, kind)
}

// Create adds an entity, or returns the existing one when the name is taken.
func (s *Service) Create(ctx context.Context, kind Kind, req CreateRequest) (Entity, error) {
	if !kind.Valid() {
		return Entity{}, fmt.Errorf("masterdata: kind %q: %w", kind, httpx.ErrNotFound)
	}
	req.Name = strings.TrimSpace(req.Name)
	req.DefaultPlate = strings.TrimSpace(req.DefaultPlate)
	if err := httpx.Validate(s.validate, req); err != nil {
		return Entity{}, err
	}

	existing, err := s.store.FindByName(ctx, kind, req.Name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, httpx.ErrNotFound) {
		return Entity{}, err
	}

	created, err := s.store.Create(ctx, kind, Entity{
		ID:           s.newID(),
		Name:         req.Name,
		DefaultPlate: req.DefaultPlate,
	})
	if err != nil {
		return Entity{}, err
	}
	if s.onChange != nil {
		s.onChange(ctx)
	}
	return created, nil
}

// Resolve turns a Ref into a concrete entity id, creating the entity when
// the ref names a new one. plate seeds a new driver's default plate.
func (s *Service) Resolve(ctx context.Context, kind Kind, ref Ref, plate string) (string, error) {
	switch {
	case strings.TrimSpace(ref.ID) != "":
		return strings.TrimSpace(ref.ID), nil
	case ref.IsNew():
		e, err := s.Create(ctx, kind, CreateRequest{Name: ref.NewName, DefaultPlate: plate})
		if err != nil {
			return "", err
		}
		return e.ID, nil
	default:
		return "", httpx.FieldErrors{string(kind): "required"}
	}
}

// Catalog loads all four collections.
func (s *Service) Catalog(ctx context.Context) (Catalog, error) {
	var cat Catalog
	g, gctx := errgroup.WithContext(ctx)
	targets := map[Kind]*[]Entity{
		KindMaterial: &cat.Materials,
		KindDriver:   &cat.Drivers,
		KindSupplier: &cat.Suppliers,
		KindProject:  &cat.Projects,
	}
	for kind, dst := range targets {
		g.Go(func() error {
			list, err := s.store.List(gctx, kind)
			if err != nil {
				return err
			}
			*dst = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}
