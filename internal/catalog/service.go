package catalog

import (
	"context"
	"fmt"
)

// RepositoryPort abstracts product persistence for the service.
type RepositoryPort interface {
	Get(ctx context.Context, id int64) (Product, error)
	List(ctx context.Context, req ListProductsRequest) ([]Product, int, error)
	Create(ctx context.Context, p Product) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
}

type Service struct {
	repo RepositoryPort
}

func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateProductRequest) (Product, error) {
	product := Product{
		Code:          req.Code,
		Name:          req.Name,
		Category:      req.Category,
		Price:         req.Price,
		Cost:          req.Cost,
		StockQuantity: req.InitialStock,
		IsActive:      true,
	}
	id, err := s.repo.Create(ctx, product)
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListProductsRequest) ([]Product, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest) (Product, error) {
	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Cost != nil {
		updates["cost"] = *req.Cost
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return Product{}, fmt.Errorf("update product: %w", err)
		}
	}
	return s.repo.Get(ctx, id)
}
