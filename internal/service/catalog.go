package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ErbolTakhirov/Abak-market/internal/domain"
	"github.com/ErbolTakhirov/Abak-market/internal/event"
	"github.com/ErbolTakhirov/Abak-market/internal/repository"
)

// CatalogService exposes plain catalog reads and the view-count increment.
type CatalogService struct {
	catalog    repository.CatalogRepository
	categories repository.CategoryRepository
	events     *event.Producer
	logger     *slog.Logger
}

// NewCatalogService creates a catalog service.
func NewCatalogService(
	catalog repository.CatalogRepository,
	categories repository.CategoryRepository,
	events *event.Producer,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		catalog:    catalog,
		categories: categories,
		events:     events,
		logger:     logger,
	}
}

// GetProductBySlug retrieves a product by its slug.
func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	product, err := s.catalog.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get product by slug: %w", err)
	}
	return product, nil
}

// GetProductByID retrieves a product by its ID.
func (s *CatalogService) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// ListProducts returns available products matching the filter with the total count.
func (s *CatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	products, total, err := s.catalog.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

// ListCategories returns all active categories with product counts.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// IncrementView counts one product detail view. The increment is a single
// atomic update; callers invoke it at most once per rendered detail page.
func (s *CatalogService) IncrementView(ctx context.Context, productID string) error {
	if err := s.catalog.IncrementView(ctx, productID); err != nil {
		return fmt.Errorf("increment view: %w", err)
	}

	s.events.ProductViewed(ctx, productID)

	s.logger.DebugContext(ctx, "product view counted",
		slog.String("product_id", productID),
	)
	return nil
}
