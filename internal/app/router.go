package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/shoplite/shoplite/internal/catalog"
	"github.com/shoplite/shoplite/internal/customers"
	"github.com/shoplite/shoplite/internal/observability"
	"github.com/shoplite/shoplite/internal/repairs"
	"github.com/shoplite/shoplite/internal/stock"
	"github.com/shoplite/shoplite/internal/transactions"
	"github.com/shoplite/shoplite/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger              *slog.Logger
	Config              *Config
	CatalogHandler      *catalog.Handler
	CustomersHandler    *customers.Handler
	TransactionsHandler *transactions.Handler
	RepairsHandler      *repairs.Handler
	StockHandler        *stock.Handler
	JobHandler          *jobs.Handler
	Metrics             *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/products", params.CatalogHandler.MountRoutes)
	r.Route("/customers", params.CustomersHandler.MountRoutes)
	r.Route("/transactions", params.TransactionsHandler.MountRoutes)
	r.Route("/repairs", params.RepairsHandler.MountRoutes)
	r.Route("/stock", params.StockHandler.MountRoutes)

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Handle("/metrics", params.Metrics.Handler())
	}

	return r
}
