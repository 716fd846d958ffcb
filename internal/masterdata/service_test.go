package masterdata

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitelog/intake/internal/platform/httpx"
)

type memoryStore struct {
	mu      sync.Mutex
	items   map[Kind][]Entity
	listErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{items: map[Kind][]Entity{}}
}

func (m *memoryStore) List(_ context.Context, kind Kind) ([]Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]Entity(nil), m.items[kind]...), nil
}

func (m *memoryStore) FindByName(_ context.Context, kind Kind, name string) (Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.items[kind] {
		if e.Name == name {
			return e, nil
		}
	}
	return Entity{}, fmt.Errorf("find: %w", httpx.ErrNotFound)
}

func (m *memoryStore) Create(_ context.Context, kind Kind, e Entity) (Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[kind] = append([]Entity{e}, m.items[kind]...)
	return e, nil
}

func newTestService(store Store) *Service {
	svc := NewService(store)
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return svc
}

func TestCreateReusesExistingName(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()
	notified := 0
	svc.Notify(func(context.Context) { notified++ })

	first, err := svc.Create(ctx, KindMaterial, CreateRequest{Name: " سیمان "})
	require.NoError(t, err)
	assert.Equal(t, "سیمان", first.Name)

	again, err := svc.Create(ctx, KindMaterial, CreateRequest{Name: "سیمان"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Len(t, store.items[KindMaterial], 1)
	assert.Equal(t, 1, notified)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newMemoryStore())

	_, err := svc.Create(context.Background(), KindProject, CreateRequest{Name: "  "})
	require.Error(t, err)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	var fields httpx.FieldErrors
	require.True(t, errors.As(err, &fields))
	assert.Equal(t, "required", fields["name"])

	_, err = svc.Create(context.Background(), Kind("truck"), CreateRequest{Name: "x"})
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestResolve(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	id, err := svc.Resolve(ctx, KindDriver, Existing("drv-9"), "")
	require.NoError(t, err)
	assert.Equal(t, "drv-9", id)

	id, err = svc.Resolve(ctx, KindDriver, NewNamed("حسن"), "22ج222")
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)
	require.Len(t, store.items[KindDriver], 1)
	assert.Equal(t, "22ج222", store.items[KindDriver][0].DefaultPlate)

	id, err = svc.Resolve(ctx, KindDriver, NewNamed("حسن"), "")
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)

	_, err = svc.Resolve(ctx, KindSupplier, Ref{}, "")
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCatalog(t *testing.T) {
	store := newMemoryStore()
	store.items[KindMaterial] = []Entity{{ID: "m1", Name: "شن"}}
	store.items[KindDriver] = []Entity{{ID: "d1", Name: "علی", DefaultPlate: "11الف111"}}
	store.items[KindProject] = []Entity{{ID: "p1", Name: "پروژه الف"}}
	svc := newTestService(store)

	cat, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "شن", cat.MaterialName("m1"))
	assert.Equal(t, "", cat.MaterialName("missing"))
	assert.Equal(t, "", cat.SupplierName(""))
	assert.Equal(t, "پروژه الف", cat.ProjectName("p1"))
	d, ok := cat.Driver("d1")
	require.True(t, ok)
	assert.Equal(t, "11الف111", d.DefaultPlate)

	store.listErr = errors.New("boom")
	_, err = svc.Catalog(context.Background())
	assert.Error(t, err)
}
