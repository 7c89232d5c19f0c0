package jobs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	calls int
	err   error
}

func (f *fakeEnqueuer) EnqueueStockReconcileAll(_ context.Context) (*asynq.TaskInfo, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &asynq.TaskInfo{ID: "task-1", Queue: QueueDefault}, nil
}

func newJobsRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Route("/jobs", h.MountRoutes)
	return r
}

func TestEnqueueStockReconcileAllAccepted(t *testing.T) {
	enq := &fakeEnqueuer{}
	router := newJobsRouter(NewHandler(nil, enq, nil, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/stock-reconcile-all", nil))

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.JSONEq(t, `{"queued":true,"task_id":"task-1"}`, rec.Body.String())
	require.Equal(t, 1, enq.calls)
}

func TestEnqueueStockReconcileAllUnavailable(t *testing.T) {
	router := newJobsRouter(NewHandler(nil, nil, nil, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/stock-reconcile-all", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestEnqueueStockReconcileAllBrokerDown(t *testing.T) {
	enq := &fakeEnqueuer{err: errors.New("redis gone")}
	router := newJobsRouter(NewHandler(nil, enq, nil, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/stock-reconcile-all", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, 1, enq.calls)
}

func TestEnqueueStockReconcileAllGuarded(t *testing.T) {
	enq := &fakeEnqueuer{}
	deny := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		})
	}
	router := newJobsRouter(NewHandler(nil, enq, deny, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/stock-reconcile-all", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Zero(t, enq.calls)
}

func TestJobsHealthWithoutInspector(t *testing.T) {
	router := newJobsRouter(NewHandler(nil, nil, nil, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"queue":"default","pending":0}`, rec.Body.String())
}
