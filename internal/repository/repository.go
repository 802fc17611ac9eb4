package repository

import (
	"context"

	"github.com/ErbolTakhirov/Abak-market/internal/domain"
)

// SearchFilter specifies the disjunctive matching predicate for a search.
// Every variant is matched against name, description and short description as
// a case-insensitive substring; tokens are additionally matched against name.
type SearchFilter struct {
	Variants     []string
	Tokens       []string
	CategorySlug *string
}

// ProductFilter defines filter criteria for plain catalog listings.
type ProductFilter struct {
	CategorySlug *string
	OnlyFeatured bool
	Page         int
	PerPage      int
}

// CatalogRepository is the read-mostly product store. Search and
// recommendation treat it as immutable except for IncrementView.
type CatalogRepository interface {
	// SearchAvailable returns all available products matching the filter.
	// Order is unspecified; relevance ranking happens in the service layer.
	SearchAvailable(ctx context.Context, filter SearchFilter) ([]domain.Product, error)

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// GetBySlug retrieves a product by its URL-friendly slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)

	// List returns available products matching the filter along with the total count.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// IncrementView atomically adds 1 to the product's view counter.
	IncrementView(ctx context.Context, id string) error

	// FindPopular returns available products ordered by the composite
	// popularity score, excluding the given IDs.
	FindPopular(ctx context.Context, limit int, excludeIDs []string) ([]domain.Product, error)

	// FindSimilarPriceBand returns available products in the given category
	// whose price falls within [low, high], excluding the given IDs.
	FindSimilarPriceBand(ctx context.Context, categoryID string, low, high int64, excludeIDs []string, limit int) ([]domain.Product, error)

	// FindSameCategory returns available products in the given category,
	// excluding the given IDs.
	FindSameCategory(ctx context.Context, categoryID string, excludeIDs []string, limit int) ([]domain.Product, error)

	// FindFeatured returns available featured products from any category,
	// excluding the given IDs.
	FindFeatured(ctx context.Context, excludeIDs []string, limit int) ([]domain.Product, error)

	// FindNew returns available products flagged as new, newest first.
	FindNew(ctx context.Context, limit int) ([]domain.Product, error)

	// FindPromotional returns available promotional products.
	FindPromotional(ctx context.Context, limit int) ([]domain.Product, error)

	// SuggestByPrefix returns available products whose name contains the
	// prefix, prefix-anchored matches first.
	SuggestByPrefix(ctx context.Context, prefix string, limit int) ([]domain.Product, error)
}

// CategoryRepository is the read-only category store.
type CategoryRepository interface {
	// GetBySlug retrieves an active category by slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)

	// ListActive returns all active categories with their available product
	// counts, ordered by sort order.
	ListActive(ctx context.Context) ([]domain.Category, error)

	// SuggestByPrefix returns active categories whose name contains the
	// prefix, ordered by available product count descending.
	SuggestByPrefix(ctx context.Context, prefix string, limit int) ([]domain.Category, error)
}

// SynonymRepository stores (canonical, alternate) search term pairs.
type SynonymRepository interface {
	// ListAll returns every synonym pair.
	ListAll(ctx context.Context) ([]domain.SearchSynonym, error)

	// Create inserts a new synonym pair.
	Create(ctx context.Context, syn *domain.SearchSynonym) error

	// Delete removes a synonym pair by ID.
	Delete(ctx context.Context, id string) error
}

// SearchLogRepository persists the popular-search log.
type SearchLogRepository interface {
	// LogSearch records a search: creates the record on first sight, or
	// atomically increments search_count and refreshes results_count.
	LogSearch(ctx context.Context, query string, resultsCount int) error

	// RecentQueries returns up to limit distinct past queries with nonzero
	// results, most searched first, excluding the given query.
	RecentQueries(ctx context.Context, limit int, exclude string) ([]domain.PopularSearch, error)

	// SuggestByPrefix returns past queries starting with the prefix that had
	// nonzero results, ordered by search_count descending.
	SuggestByPrefix(ctx context.Context, prefix string, limit int) ([]domain.PopularSearch, error)
}
