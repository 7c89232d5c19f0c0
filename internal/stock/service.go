package stock

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/shoplite/shoplite/internal/shared"
)

// RepositoryPort abstracts ledger store access for the service.
type RepositoryPort interface {
	GetProduct(ctx context.Context, id int64) (Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	ListEvents(ctx context.Context, identity ProductIdentity) ([]LedgerEvent, error)
	UpdateStockQuantity(ctx context.Context, productID, quantity int64) error
}

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// MetricsPort receives reconciliation metrics.
type MetricsPort interface {
	ObserveReconcile(outcome string)
	ObserveDrift()
	ObserveNegativeStock()
}

// Service is the reconciliation engine: it diagnoses drift between the
// cached stock counter and the ledger, and repairs it on demand.
type Service struct {
	repo    RepositoryPort
	cache   *DiagnosticsCache
	audit   AuditPort
	metrics MetricsPort
	logger  *slog.Logger
	workers int
}

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	// BulkWorkers bounds the worker pool of catalog-wide reconciles.
	BulkWorkers int
}

// NewService builds Service. Cache, audit and metrics may be nil.
func NewService(repo RepositoryPort, cache *DiagnosticsCache, audit AuditPort, metrics MetricsPort, logger *slog.Logger, cfg ServiceConfig) *Service {
	workers := cfg.BulkWorkers
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, audit: audit, metrics: metrics, logger: logger, workers: workers}
}

// Diagnose computes the read-only drift breakdown for one product.
// Results are served through the diagnostics cache when available; a
// reconcile invalidates the cached entry.
func (s *Service) Diagnose(ctx context.Context, productID int64) (Diagnostics, error) {
	if s.cache != nil {
		if diag, ok := s.cache.Get(ctx, productID); ok {
			return diag, nil
		}
	}

	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return Diagnostics{}, err
	}
	identity := ProductIdentity{ID: product.ID, Name: product.Name}
	events, err := s.repo.ListEvents(ctx, identity)
	if err != nil {
		return Diagnostics{}, fmt.Errorf("stock: list ledger events: %w", err)
	}

	s.logResolution(identity, events)
	breakdown := Compare(product.StockQuantity, Calculate(events))
	if breakdown.Difference != 0 && s.metrics != nil {
		s.metrics.ObserveDrift()
	}
	if breakdown.CalculatedStock < 0 && s.metrics != nil {
		s.metrics.ObserveNegativeStock()
	}

	diag := Diagnostics{Product: product, Breakdown: breakdown}
	if s.cache != nil {
		s.cache.Set(ctx, diag)
	}
	return diag, nil
}

// Reconcile recomputes one product's stock from the ledger and writes
// it back unconditionally. Last writer wins: there is no concurrency
// check against ledger rows arriving during the recompute, callers
// accept eventual consistency and re-run when in doubt.
func (s *Service) Reconcile(ctx context.Context, productID int64) (ReconcileResult, error) {
	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ObserveReconcile("failed")
		}
		return ReconcileResult{}, err
	}
	result, err := s.reconcileProduct(ctx, product)
	if s.metrics != nil {
		if err != nil {
			s.metrics.ObserveReconcile("failed")
		} else {
			s.metrics.ObserveReconcile("synced")
		}
	}
	return result, err
}

// ReconcileAll recomputes every product independently on a bounded
// worker pool. One product's failure is recorded and counted, never
// propagated; cancelling the context stops scheduling further products
// while in-flight ones run to completion.
func (s *Service) ReconcileAll(ctx context.Context) (BulkResult, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return BulkResult{}, fmt.Errorf("stock: list products: %w", err)
	}

	var (
		mu       sync.Mutex
		synced   int
		failures []ReconcileFailure
	)

	g := &errgroup.Group{}
	g.SetLimit(s.workers)
	for _, product := range products {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			_, err := s.reconcileProduct(ctx, product)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, ReconcileFailure{
					ProductID:   product.ID,
					ProductName: product.Name,
					Reason:      err.Error(),
				})
				if s.metrics != nil {
					s.metrics.ObserveReconcile("failed")
				}
				return nil
			}
			synced++
			if s.metrics != nil {
				s.metrics.ObserveReconcile("synced")
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(failures, func(i, j int) bool { return failures[i].ProductID < failures[j].ProductID })
	result := BulkResult{
		SyncedCount: synced,
		TotalCount:  len(products),
		ErrorCount:  len(failures),
		Errors:      failures,
	}
	s.logger.Info("catalog stock reconcile finished",
		slog.Int("synced", result.SyncedCount),
		slog.Int("total", result.TotalCount),
		slog.Int("errors", result.ErrorCount))
	return result, nil
}

func (s *Service) reconcileProduct(ctx context.Context, product Product) (ReconcileResult, error) {
	identity := ProductIdentity{ID: product.ID, Name: product.Name}
	events, err := s.repo.ListEvents(ctx, identity)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("stock: list ledger events: %w", err)
	}
	s.logResolution(identity, events)

	totals := Calculate(events)
	calculated := totals.CalculatedStock()
	if calculated < 0 && s.metrics != nil {
		s.metrics.ObserveNegativeStock()
	}

	if err := s.repo.UpdateStockQuantity(ctx, product.ID, calculated); err != nil {
		return ReconcileResult{}, fmt.Errorf("stock: write stock quantity: %w", err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, product.ID)
	}

	purchaseEvents, repairEvents := 0, 0
	for _, ev := range events {
		if ev.Kind == EventRepairPart {
			repairEvents++
		} else {
			purchaseEvents++
		}
	}

	if s.audit != nil {
		resolution := identity.Classify(events)
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   "stock:reconcile",
			Entity:   "product",
			EntityID: fmt.Sprintf("%d", product.ID),
			Meta: map[string]any{
				"cached_before":   product.StockQuantity,
				"calculated":      calculated,
				"matched_by_id":   resolution.ByID,
				"matched_by_name": resolution.ByNameOnly,
				"purchase_events": purchaseEvents,
				"repair_events":   repairEvents,
			},
		})
	}

	return ReconcileResult{
		ProductID:       product.ID,
		ProductName:     product.Name,
		CalculatedStock: calculated,
		PurchaseEvents:  purchaseEvents,
		RepairEvents:    repairEvents,
	}, nil
}

// logResolution makes name-only attribution visible: a renamed product
// or a differently-cased spelling silently changes which rows match,
// and this is the only place that surfaces it.
func (s *Service) logResolution(identity ProductIdentity, events []LedgerEvent) {
	res := identity.Classify(events)
	if res.ByNameOnly == 0 {
		return
	}
	s.logger.Debug("ledger events attributed by name only",
		slog.Int64("product_id", identity.ID),
		slog.String("product_name", identity.Name),
		slog.Int("by_id", res.ByID),
		slog.Int("by_name_only", res.ByNameOnly))
}
