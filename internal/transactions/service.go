package transactions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shoplite/shoplite/internal/shared"
)

// RepositoryPort abstracts ledger persistence for the service.
type RepositoryPort interface {
	Insert(ctx context.Context, t Transaction) (int64, error)
	ApplyStockDelta(ctx context.Context, productID, delta int64) error
	List(ctx context.Context, req ListTransactionsRequest) ([]Transaction, int, error)
}

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

type Service struct {
	repo   RepositoryPort
	audit  AuditPort
	logger *slog.Logger
}

func NewService(repo RepositoryPort, audit AuditPort, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, audit: audit, logger: logger}
}

// Record appends a ledger row, then nudges the product's cached stock
// counter when the row carries a product id. The two writes are not
// atomic: a crash or error between them leaves the counter stale until
// the next reconcile, and rows without an id never touch the counter
// at all. That drift window is the reconciler's reason to exist.
func (s *Service) Record(ctx context.Context, req CreateTransactionRequest) (Transaction, error) {
	occurredAt := time.Now().UTC()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}
	t := Transaction{
		Code:        uuid.NewString(),
		Type:        req.Type,
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		CustomerID:  req.CustomerID,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		Note:        req.Note,
		OccurredAt:  occurredAt,
	}

	id, err := s.repo.Insert(ctx, t)
	if err != nil {
		return Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	t.ID = id

	if t.ProductID != nil {
		if err := s.repo.ApplyStockDelta(ctx, *t.ProductID, t.StockDelta()); err != nil {
			s.logger.Warn("stock counter update failed after ledger insert, counter is stale until reconcile",
				slog.Int64("transaction_id", t.ID),
				slog.Int64("product_id", *t.ProductID),
				slog.Any("error", err))
		}
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   fmt.Sprintf("transaction:%s", t.Type),
			Entity:   "transaction",
			EntityID: t.Code,
			Meta: map[string]any{
				"product_name": t.ProductName,
				"quantity":     t.Quantity,
			},
		})
	}
	return t, nil
}

func (s *Service) List(ctx context.Context, req ListTransactionsRequest) ([]Transaction, int, error) {
	return s.repo.List(ctx, req)
}
