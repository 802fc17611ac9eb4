package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ErbolTakhirov/Abak-market/internal/domain"
	"github.com/ErbolTakhirov/Abak-market/internal/repository"
)

// priceBandFraction is the ±30% window used by the first similarity tier.
const priceBandFraction = 0.3

// RecommendService implements popularity ranking and tiered similar-item
// lookup over the catalog.
type RecommendService struct {
	catalog repository.CatalogRepository
	logger  *slog.Logger
}

// NewRecommendService creates a recommendation service.
func NewRecommendService(catalog repository.CatalogRepository, logger *slog.Logger) *RecommendService {
	return &RecommendService{catalog: catalog, logger: logger}
}

// Popular returns products ranked by the composite popularity score,
// excluding the given IDs.
func (s *RecommendService) Popular(ctx context.Context, limit int, excludeIDs []string) ([]domain.Product, error) {
	products, err := s.catalog.FindPopular(ctx, limit, excludeIDs)
	if err != nil {
		return nil, fmt.Errorf("popular products: %w", err)
	}
	return products, nil
}

// Similar returns up to limit products related to the reference product,
// filling from three progressively looser tiers: same category within ±30%
// of the reference price, then same category at any price, then globally
// featured items. The reference is never included and each tier only appends
// items not already selected.
func (s *RecommendService) Similar(ctx context.Context, productID string, limit int) ([]domain.Product, error) {
	ref, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get reference product: %w", err)
	}
	if limit <= 0 {
		return []domain.Product{}, nil
	}

	selected := make([]domain.Product, 0, limit)
	exclude := []string{ref.ID}

	if ref.CategoryID != nil {
		low, high := ref.PriceBand(priceBandFraction)
		band, err := s.catalog.FindSimilarPriceBand(ctx, *ref.CategoryID, low, high, exclude, limit)
		if err != nil {
			return nil, fmt.Errorf("similar price band: %w", err)
		}
		selected, exclude = appendDistinct(selected, exclude, band, limit)

		if len(selected) < limit {
			sameCat, err := s.catalog.FindSameCategory(ctx, *ref.CategoryID, exclude, limit-len(selected))
			if err != nil {
				return nil, fmt.Errorf("similar same category: %w", err)
			}
			selected, exclude = appendDistinct(selected, exclude, sameCat, limit)
		}
	}

	if len(selected) < limit {
		featured, err := s.catalog.FindFeatured(ctx, exclude, limit-len(selected))
		if err != nil {
			return nil, fmt.Errorf("similar featured fallback: %w", err)
		}
		selected, _ = appendDistinct(selected, exclude, featured, limit)
	}

	return selected, nil
}

// New returns the newest products flagged as new.
func (s *RecommendService) New(ctx context.Context, limit int) ([]domain.Product, error) {
	products, err := s.catalog.FindNew(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("new products: %w", err)
	}
	return products, nil
}

// Promotional returns promotional products, most viewed first.
func (s *RecommendService) Promotional(ctx context.Context, limit int) ([]domain.Product, error) {
	products, err := s.catalog.FindPromotional(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("promotional products: %w", err)
	}
	return products, nil
}

// appendDistinct appends items not yet selected, up to limit, and extends the
// exclusion list for the next tier.
func appendDistinct(selected []domain.Product, exclude []string, items []domain.Product, limit int) ([]domain.Product, []string) {
	seen := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		seen[id] = true
	}

	for _, item := range items {
		if len(selected) >= limit {
			break
		}
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		selected = append(selected, item)
		exclude = append(exclude, item.ID)
	}
	return selected, exclude
}
