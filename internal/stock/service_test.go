package stock

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu       sync.Mutex
	products map[int64]Product
	events   []LedgerEvent
	failRead map[int64]error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{products: make(map[int64]Product), failRead: make(map[int64]error)}
}

func (r *memoryRepo) addProduct(id int64, name string, cached int64) {
	r.products[id] = Product{ID: id, Name: name, StockQuantity: cached}
}

func (r *memoryRepo) addEvent(kind EventKind, productID *int64, name string, qty int64) {
	r.events = append(r.events, LedgerEvent{Kind: kind, ProductID: productID, ProductName: name, Quantity: qty, OccurredAt: time.Now()})
}

func (r *memoryRepo) GetProduct(ctx context.Context, id int64) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return p, nil
}

func (r *memoryRepo) ListProducts(ctx context.Context) ([]Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var products []Product
	for _, p := range r.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (r *memoryRepo) ListEvents(ctx context.Context, identity ProductIdentity) ([]LedgerEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failRead[identity.ID]; ok {
		return nil, err
	}
	return identity.Resolve(r.events), nil
}

func (r *memoryRepo) UpdateStockQuantity(ctx context.Context, productID, quantity int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return ErrProductNotFound
	}
	p.StockQuantity = quantity
	r.products[productID] = p
	return nil
}

func ptr(v int64) *int64 { return &v }

func newTestService(repo *memoryRepo) *Service {
	return NewService(repo, nil, nil, nil, nil, ServiceConfig{BulkWorkers: 2})
}

func TestDiagnoseNoEvents(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Widget", 0)
	svc := newTestService(repo)

	diag, err := svc.Diagnose(context.Background(), 1)
	require.NoError(t, err)
	require.EqualValues(t, 0, diag.Breakdown.CalculatedStock)
	require.EqualValues(t, 0, diag.Breakdown.Difference)
}

func TestDiagnoseNotFound(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	_, err := svc.Diagnose(context.Background(), 42)
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestDiagnoseWidgetExample(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Widget", 4)
	repo.addEvent(EventPurchase, ptr(1), "Widget", 10)
	repo.addEvent(EventSale, ptr(1), "Widget", 3)
	repo.addEvent(EventRepairPart, ptr(1), "Widget", 2)
	svc := newTestService(repo)

	diag, err := svc.Diagnose(context.Background(), 1)
	require.NoError(t, err)
	require.EqualValues(t, 10, diag.Breakdown.Purchased)
	require.EqualValues(t, 3, diag.Breakdown.Sold)
	require.EqualValues(t, 2, diag.Breakdown.UsedInRepairs)
	require.EqualValues(t, 5, diag.Breakdown.CalculatedStock)
	require.EqualValues(t, -1, diag.Breakdown.Difference)

	result, err := svc.Reconcile(context.Background(), 1)
	require.NoError(t, err)
	require.EqualValues(t, 5, result.CalculatedStock)
	require.Equal(t, 3, result.PurchaseEvents)
	require.Equal(t, 1, result.RepairEvents)

	product, err := repo.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	require.EqualValues(t, 5, product.StockQuantity)
}

func TestNegativeCalculatedStockIsNotClamped(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Gasket", 0)
	repo.addEvent(EventSale, ptr(1), "Gasket", 7)
	repo.addEvent(EventReturn, ptr(1), "Gasket", 2)
	svc := newTestService(repo)

	result, err := svc.Reconcile(context.Background(), 1)
	require.NoError(t, err)
	require.EqualValues(t, -5, result.CalculatedStock)

	product, err := repo.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	require.EqualValues(t, -5, product.StockQuantity)
}

func TestReconcileIdempotent(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Widget", 99)
	repo.addEvent(EventPurchase, ptr(1), "Widget", 8)
	repo.addEvent(EventSale, ptr(1), "Widget", 3)
	svc := newTestService(repo)

	first, err := svc.Reconcile(context.Background(), 1)
	require.NoError(t, err)
	second, err := svc.Reconcile(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, first.CalculatedStock, second.CalculatedStock)

	diag, err := svc.Diagnose(context.Background(), 1)
	require.NoError(t, err)
	require.EqualValues(t, 0, diag.Breakdown.Difference)
}

func TestIdentityResolutionInclusiveOr(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Widget", 0)
	repo.addProduct(2, "Sprocket", 0)
	// Recorded before the product existed: no id, name only.
	repo.addEvent(EventPurchase, nil, "Widget", 4)
	// Points at another product's id but carries Widget's name:
	// name-match is inclusive, the event counts for Widget too.
	repo.addEvent(EventPurchase, ptr(2), "Widget", 6)
	// Case differs from the catalog name, so it must not match.
	repo.addEvent(EventPurchase, nil, "widget", 100)
	svc := newTestService(repo)

	diag, err := svc.Diagnose(context.Background(), 1)
	require.NoError(t, err)
	require.EqualValues(t, 10, diag.Breakdown.Purchased)
	require.EqualValues(t, 10, diag.Breakdown.CalculatedStock)
}

func TestReconcileAllPartialFailure(t *testing.T) {
	repo := newMemoryRepo()
	for id := int64(1); id <= 4; id++ {
		repo.addProduct(id, "P", 50)
		repo.addEvent(EventPurchase, ptr(id), "", 10)
	}
	repo.failRead[3] = errors.New("connection reset")
	svc := newTestService(repo)

	result, err := svc.ReconcileAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, result.SyncedCount)
	require.Equal(t, 4, result.TotalCount)
	require.Equal(t, 1, result.ErrorCount)
	require.Len(t, result.Errors, 1)
	require.EqualValues(t, 3, result.Errors[0].ProductID)

	// The failing product's cached stock stays untouched.
	product, err := repo.GetProduct(context.Background(), 3)
	require.NoError(t, err)
	require.EqualValues(t, 50, product.StockQuantity)

	// The others were rewritten from their own ledger rows.
	product, err = repo.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	require.EqualValues(t, 10, product.StockQuantity)
}

func TestReconcileAllCancelledContextSchedulesNothing(t *testing.T) {
	repo := newMemoryRepo()
	for id := int64(1); id <= 6; id++ {
		repo.addProduct(id, "P", 50)
	}
	svc := newTestService(repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.ReconcileAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, result.SyncedCount)
	require.Equal(t, 0, result.ErrorCount)
	require.Equal(t, 6, result.TotalCount)

	product, err := repo.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	require.EqualValues(t, 50, product.StockQuantity)
}
