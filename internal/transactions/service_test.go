package transactions

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shoplite/shoplite/internal/shared"
)

type memoryRepo struct {
	mu      sync.Mutex
	nextID  int64
	rows    []Transaction
	stock   map[int64]int64
	noStock bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{stock: make(map[int64]int64)}
}

func (m *memoryRepo) Insert(_ context.Context, t Transaction) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	t.ID = m.nextID
	m.rows = append(m.rows, t)
	return t.ID, nil
}

func (m *memoryRepo) ApplyStockDelta(_ context.Context, productID, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.noStock {
		return shared.ErrNotFound
	}
	m.stock[productID] += delta
	return nil
}

func (m *memoryRepo) List(_ context.Context, req ListTransactionsRequest) ([]Transaction, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Transaction
	for _, t := range m.rows {
		if req.Type != nil && t.Type != *req.Type {
			continue
		}
		out = append(out, t)
	}
	return out, len(out), nil
}

func ptr(v int64) *int64 { return &v }

func TestRecordPurchaseIncrementsCounter(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)

	tx, err := svc.Record(context.Background(), CreateTransactionRequest{
		Type: TypePurchase, ProductID: ptr(1), ProductName: "widget", Quantity: 5,
	})
	require.NoError(t, err)
	require.NotEmpty(t, tx.Code)
	require.Equal(t, int64(5), repo.stock[1])
}

func TestRecordSaleDecrementsCounter(t *testing.T) {
	repo := newMemoryRepo()
	repo.stock[1] = 10
	svc := NewService(repo, nil, nil)

	_, err := svc.Record(context.Background(), CreateTransactionRequest{
		Type: TypeSale, ProductID: ptr(1), ProductName: "widget", Quantity: 3,
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), repo.stock[1])
}

func TestRecordByNameOnlySkipsCounter(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)

	tx, err := svc.Record(context.Background(), CreateTransactionRequest{
		Type: TypeSale, ProductName: "legacy gadget", Quantity: 2,
	})
	require.NoError(t, err)
	require.Nil(t, tx.ProductID)
	require.Empty(t, repo.stock)
	require.Len(t, repo.rows, 1)
}

func TestRecordSurvivesCounterFailure(t *testing.T) {
	repo := newMemoryRepo()
	repo.noStock = true
	svc := NewService(repo, nil, nil)

	// the ledger row lands even when the counter update fails
	tx, err := svc.Record(context.Background(), CreateTransactionRequest{
		Type: TypePurchase, ProductID: ptr(4), ProductName: "widget", Quantity: 1,
	})
	require.NoError(t, err)
	require.NotZero(t, tx.ID)
	require.Len(t, repo.rows, 1)
}

func TestStockDeltaSigns(t *testing.T) {
	require.Equal(t, int64(4), Transaction{Type: TypePurchase, Quantity: 4}.StockDelta())
	require.Equal(t, int64(-4), Transaction{Type: TypeSale, Quantity: 4}.StockDelta())
	require.Equal(t, int64(4), Transaction{Type: TypeReturn, Quantity: 4}.StockDelta())
}
