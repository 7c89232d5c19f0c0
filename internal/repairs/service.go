package repairs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shoplite/shoplite/internal/shared"
)

// RepositoryPort abstracts repair persistence for the service.
type RepositoryPort interface {
	Get(ctx context.Context, id int64) (Repair, error)
	List(ctx context.Context, req ListRepairsRequest) ([]Repair, int, error)
	Create(ctx context.Context, rep Repair) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	InsertPart(ctx context.Context, part RepairPart) (int64, error)
	ListParts(ctx context.Context, repairID int64) ([]RepairPart, error)
	ApplyStockDelta(ctx context.Context, productID int64, delta int64) error
}

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// ErrInvalidTransition is returned when a status change skips the
// received -> in_progress -> done -> picked_up order.
var ErrInvalidTransition = fmt.Errorf("invalid status transition")

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

func (s *Service) Create(ctx context.Context, req CreateRepairRequest) (Repair, error) {
	rep := Repair{
		Code:       uuid.NewString(),
		CustomerID: req.CustomerID,
		Device:     req.Device,
		Issue:      req.Issue,
		Status:     StatusReceived,
		Fee:        req.Fee,
	}
	id, err := s.repo.Create(ctx, rep)
	if err != nil {
		return Repair{}, fmt.Errorf("create repair: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (RepairDetail, error) {
	rep, err := s.repo.Get(ctx, id)
	if err != nil {
		return RepairDetail{}, err
	}
	parts, err := s.repo.ListParts(ctx, id)
	if err != nil {
		return RepairDetail{}, fmt.Errorf("list repair parts: %w", err)
	}
	if parts == nil {
		parts = []RepairPart{}
	}
	return RepairDetail{Repair: rep, Parts: parts}, nil
}

func (s *Service) List(ctx context.Context, req ListRepairsRequest) ([]Repair, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, next Status) (Repair, error) {
	rep, err := s.repo.Get(ctx, id)
	if err != nil {
		return Repair{}, err
	}
	if !rep.Status.CanTransition(next) {
		return Repair{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rep.Status, next)
	}
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return Repair{}, fmt.Errorf("update repair status: %w", err)
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   "repair:status",
			Entity:   "repair",
			EntityID: rep.Code,
			Meta: map[string]any{
				"from": rep.Status,
				"to":   next,
			},
		})
	}
	return s.repo.Get(ctx, id)
}

// AddPart records a consumed part, then decrements the product's
// cached stock counter when the part carries a product id. Like
// transaction recording, the two writes are separate statements, so
// the counter can go stale; parts entered by name only never touch
// the counter and are picked up by the reconciler instead.
func (s *Service) AddPart(ctx context.Context, repairID int64, req AddPartRequest) (RepairPart, error) {
	rep, err := s.repo.Get(ctx, repairID)
	if err != nil {
		return RepairPart{}, err
	}
	usedAt := time.Now().UTC()
	if req.UsedAt != nil {
		usedAt = *req.UsedAt
	}
	part := RepairPart{
		RepairID:    rep.ID,
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		UnitCost:    req.UnitCost,
		UsedAt:      usedAt,
	}
	id, err := s.repo.InsertPart(ctx, part)
	if err != nil {
		return RepairPart{}, fmt.Errorf("insert repair part: %w", err)
	}
	part.ID = id

	if part.ProductID != nil {
		if err := s.repo.ApplyStockDelta(ctx, *part.ProductID, -part.Quantity); err != nil {
			s.logger.Warn("stock counter update failed after part insert, counter is stale until reconcile",
				slog.Int64("repair_id", rep.ID),
				slog.Int64("product_id", *part.ProductID),
				slog.Any("error", err))
		}
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   "repair:part",
			Entity:   "repair",
			EntityID: rep.Code,
			Meta: map[string]any{
				"product_name": part.ProductName,
				"quantity":     part.Quantity,
			},
		})
	}
	return part, nil
}
