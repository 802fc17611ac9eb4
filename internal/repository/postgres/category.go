package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ErbolTakhirov/Abak-market/internal/domain"
	"github.com/ErbolTakhirov/Abak-market/pkg/database"
	apperrors "github.com/ErbolTakhirov/Abak-market/pkg/errors"
)

// CategoryRepository implements repository.CategoryRepository using PostgreSQL.
type CategoryRepository struct {
	db database.DBTX
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(db database.DBTX) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GetBySlug retrieves an active category by slug.
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	query := `
		SELECT id, name, slug, type, image_url, is_active, show_on_home, sort_order
		FROM categories
		WHERE slug = $1 AND is_active = TRUE`

	var c domain.Category
	err := r.db.QueryRow(ctx, query, slug).Scan(
		&c.ID, &c.Name, &c.Slug, &c.Type, &c.ImageURL,
		&c.IsActive, &c.ShowOnHome, &c.SortOrder,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}

	return &c, nil
}

// ListActive returns all active categories with their available product
// counts, ordered by sort order.
func (r *CategoryRepository) ListActive(ctx context.Context) ([]domain.Category, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.type, c.image_url, c.is_active, c.show_on_home, c.sort_order,
			count(p.id) FILTER (WHERE p.is_available) AS product_count
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		WHERE c.is_active = TRUE
		GROUP BY c.id, c.name, c.slug, c.type, c.image_url, c.is_active, c.show_on_home, c.sort_order
		ORDER BY c.sort_order ASC, c.name ASC`

	return r.queryCategories(ctx, query)
}

// SuggestByPrefix returns active categories whose name contains the prefix,
// categories with more available products first.
func (r *CategoryRepository) SuggestByPrefix(ctx context.Context, prefix string, limit int) ([]domain.Category, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.type, c.image_url, c.is_active, c.show_on_home, c.sort_order,
			count(p.id) FILTER (WHERE p.is_available) AS product_count
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		WHERE c.is_active = TRUE AND c.name ILIKE $1
		GROUP BY c.id, c.name, c.slug, c.type, c.image_url, c.is_active, c.show_on_home, c.sort_order
		ORDER BY product_count DESC, c.name ASC
		LIMIT $2`

	return r.queryCategories(ctx, query, "%"+escapeLike(prefix)+"%", limit)
}

func (r *CategoryRepository) queryCategories(ctx context.Context, query string, args ...any) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Type, &c.ImageURL,
			&c.IsActive, &c.ShowOnHome, &c.SortOrder, &c.ProductCount,
		); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}

	if categories == nil {
		categories = []domain.Category{}
	}

	return categories, nil
}
