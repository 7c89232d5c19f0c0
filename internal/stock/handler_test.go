package stock

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo *memoryRepo) http.Handler {
	svc := newTestService(repo)
	handler := NewHandler(nil, svc, nil)
	r := chi.NewRouter()
	r.Route("/stock", handler.MountRoutes)
	return r
}

func TestDiagnosticsEndpoint(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Widget", 4)
	repo.addEvent(EventPurchase, ptr(1), "Widget", 10)
	repo.addEvent(EventSale, ptr(1), "Widget", 3)
	repo.addEvent(EventRepairPart, ptr(1), "Widget", 2)
	router := newTestRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stock/1/diagnostics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp diagnosticsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.EqualValues(t, 4, resp.Product.CurrentStock)
	require.EqualValues(t, 5, resp.Product.CalculatedStock)
	require.EqualValues(t, -1, resp.Product.StockDifference)
	require.EqualValues(t, 10, resp.Breakdown.Purchased)
}

func TestDiagnosticsEndpointNotFound(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stock/99/diagnostics", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReconcileEndpoint(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Widget", 4)
	repo.addEvent(EventPurchase, ptr(1), "Widget", 10)
	repo.addEvent(EventSale, ptr(1), "Widget", 3)
	repo.addEvent(EventRepairPart, ptr(1), "Widget", 2)
	router := newTestRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/stock/1/reconcile", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp reconcileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.EqualValues(t, 5, resp.CalculatedStock)
	require.Equal(t, 3, resp.PurchaseEvents)
	require.Equal(t, 1, resp.RepairEvents)
}

func TestReconcileAllEndpoint(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Widget", 4)
	repo.addProduct(2, "Sprocket", 1)
	router := newTestRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/stock/reconcile-all", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp reconcileAllResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, 2, resp.SyncedCount)
	require.Equal(t, 2, resp.TotalCount)
	require.Equal(t, 0, resp.ErrorCount)
	require.NotNil(t, resp.Errors)
}
