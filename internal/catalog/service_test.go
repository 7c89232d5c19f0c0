package catalog

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shoplite/shoplite/internal/shared"
)

type memoryRepo struct {
	mu       sync.Mutex
	nextID   int64
	products map[int64]Product
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{products: make(map[int64]Product)}
}

func (m *memoryRepo) Get(_ context.Context, id int64) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	return p, nil
}

func (m *memoryRepo) List(_ context.Context, req ListProductsRequest) ([]Product, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Product
	for _, p := range m.products {
		if req.Search != nil && !strings.Contains(p.Name, *req.Search) {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (m *memoryRepo) Create(_ context.Context, p Product) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.products {
		if existing.Code == p.Code {
			return 0, shared.ErrAlreadyExists
		}
	}
	m.nextID++
	p.ID = m.nextID
	m.products[p.ID] = p
	return p.ID, nil
}

func (m *memoryRepo) Update(_ context.Context, id int64, updates map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return shared.ErrNotFound
	}
	if v, ok := updates["name"]; ok {
		p.Name = v.(string)
	}
	if v, ok := updates["is_active"]; ok {
		p.IsActive = v.(bool)
	}
	m.products[id] = p
	return nil
}

func TestCreateSeedsStockCounter(t *testing.T) {
	svc := NewService(newMemoryRepo())
	p, err := svc.Create(context.Background(), CreateProductRequest{
		Code: "WID-1", Name: "widget", Price: 9.99, InitialStock: 25,
	})
	require.NoError(t, err)
	require.Equal(t, int64(25), p.StockQuantity)
	require.True(t, p.IsActive)
}

func TestCreateDuplicateCode(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.Create(context.Background(), CreateProductRequest{Code: "WID-1", Name: "widget"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateProductRequest{Code: "WID-1", Name: "other"})
	require.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	p, err := svc.Create(context.Background(), CreateProductRequest{Code: "WID-1", Name: "widget", InitialStock: 3})
	require.NoError(t, err)

	name := "widget mk2"
	updated, err := svc.Update(context.Background(), p.ID, UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "widget mk2", updated.Name)
	// stock counter is untouched by catalog edits
	require.Equal(t, int64(3), updated.StockQuantity)
}

func TestUpdateMissingProduct(t *testing.T) {
	svc := NewService(newMemoryRepo())
	name := "ghost"
	_, err := svc.Update(context.Background(), 99, UpdateProductRequest{Name: &name})
	require.ErrorIs(t, err, shared.ErrNotFound)
}
