package stock

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shoplite/shoplite/internal/platform/httpx"
)

// Handler exposes the reconciliation endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	// guard protects the mutating endpoints; nil mounts them open.
	guard func(http.Handler) http.Handler
}

// NewHandler creates a new handler.
func NewHandler(logger *slog.Logger, service *Service, guard func(http.Handler) http.Handler) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{productID}/diagnostics", h.diagnostics)
	r.Group(func(r chi.Router) {
		if h.guard != nil {
			r.Use(h.guard)
		}
		r.Post("/{productID}/reconcile", h.reconcile)
		r.Post("/reconcile-all", h.reconcileAll)
	})
}

type diagnosticsResponse struct {
	Success   bool               `json:"success"`
	Product   diagnosticsProduct `json:"product"`
	Breakdown Breakdown          `json:"breakdown"`
}

type diagnosticsProduct struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	CurrentStock    int64  `json:"current_stock"`
	CalculatedStock int64  `json:"calculated_stock"`
	StockDifference int64  `json:"stock_difference"`
}

func (h *Handler) diagnostics(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Product ID", "product id must be an integer")
		return
	}

	diag, err := h.service.Diagnose(r.Context(), productID)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "product not found")
			return
		}
		h.logger.Error("stock diagnostics failed", slog.Int64("product_id", productID), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, diagnosticsResponse{
		Success: true,
		Product: diagnosticsProduct{
			ID:              diag.Product.ID,
			Name:            diag.Product.Name,
			CurrentStock:    diag.Breakdown.CachedStock,
			CalculatedStock: diag.Breakdown.CalculatedStock,
			StockDifference: diag.Breakdown.Difference,
		},
		Breakdown: diag.Breakdown,
	})
}

type reconcileResponse struct {
	Success bool `json:"success"`
	ReconcileResult
}

func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Product ID", "product id must be an integer")
		return
	}

	result, err := h.service.Reconcile(r.Context(), productID)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "product not found")
			return
		}
		h.logger.Error("stock reconcile failed", slog.Int64("product_id", productID), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, reconcileResponse{Success: true, ReconcileResult: result})
}

type reconcileAllResponse struct {
	Success bool `json:"success"`
	BulkResult
}

func (h *Handler) reconcileAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ReconcileAll(r.Context())
	if err != nil {
		h.logger.Error("catalog reconcile failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if result.Errors == nil {
		result.Errors = []ReconcileFailure{}
	}
	httpx.JSON(w, http.StatusOK, reconcileAllResponse{Success: true, BulkResult: result})
}
