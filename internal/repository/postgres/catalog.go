package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ErbolTakhirov/Abak-market/internal/domain"
	"github.com/ErbolTakhirov/Abak-market/internal/repository"
	"github.com/ErbolTakhirov/Abak-market/pkg/database"
	apperrors "github.com/ErbolTakhirov/Abak-market/pkg/errors"
)

// productColumns is the shared select list for product queries. Categories
// are joined so results carry the category slug.
const productColumns = `
	p.id, p.name, p.slug, p.description, p.short_description,
	p.category_id, COALESCE(c.slug, ''),
	p.price, p.old_price, p.currency, p.image_url, p.unit,
	p.is_available, p.is_featured, p.is_new, p.is_promotional,
	p.view_count, p.purchase_count, p.sort_order,
	p.created_at, p.updated_at`

const productFrom = `
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id`

// CatalogRepository implements repository.CatalogRepository using PostgreSQL.
type CatalogRepository struct {
	db database.DBTX
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(db database.DBTX) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// SearchAvailable returns available products matching the disjunctive filter.
// Each variant matches name, description or short description as a substring;
// each token matches name. Ranking is left to the caller.
func (r *CatalogRepository) SearchAvailable(ctx context.Context, filter repository.SearchFilter) ([]domain.Product, error) {
	var (
		matchers []string
		args     []any
		argIndex = 1
	)

	for _, variant := range filter.Variants {
		matchers = append(matchers, fmt.Sprintf(
			"(p.name ILIKE $%d OR p.description ILIKE $%d OR p.short_description ILIKE $%d)",
			argIndex, argIndex, argIndex,
		))
		args = append(args, "%"+escapeLike(variant)+"%")
		argIndex++
	}

	for _, token := range filter.Tokens {
		matchers = append(matchers, fmt.Sprintf("p.name ILIKE $%d", argIndex))
		args = append(args, "%"+escapeLike(token)+"%")
		argIndex++
	}

	if len(matchers) == 0 {
		return []domain.Product{}, nil
	}

	conditions := []string{
		"p.is_available = TRUE",
		"(" + strings.Join(matchers, " OR ") + ")",
	}

	if filter.CategorySlug != nil {
		conditions = append(conditions, fmt.Sprintf("c.slug = $%d", argIndex))
		args = append(args, *filter.CategorySlug)
		argIndex++
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE %s`,
		productColumns, productFrom, strings.Join(conditions, " AND "))

	return r.queryProducts(ctx, query, args...)
}

// GetByID retrieves a product by its ID.
func (r *CatalogRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE p.id = $1`, productColumns, productFrom)
	return r.scanProduct(ctx, query, id)
}

// GetBySlug retrieves a product by its slug.
func (r *CatalogRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE p.slug = $1`, productColumns, productFrom)
	return r.scanProduct(ctx, query, slug)
}

// List returns available products matching the filter with the total count.
func (r *CatalogRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	var (
		conditions = []string{"p.is_available = TRUE"}
		args       []any
		argIndex   = 1
	)

	if filter.CategorySlug != nil {
		conditions = append(conditions, fmt.Sprintf("c.slug = $%d", argIndex))
		args = append(args, *filter.CategorySlug)
		argIndex++
	}

	if filter.OnlyFeatured {
		conditions = append(conditions, "p.is_featured = TRUE")
	}

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	// Use count(*) OVER() for total count in a single query.
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		%s
		WHERE %s
		ORDER BY p.sort_order ASC, p.name ASC
		LIMIT $%d OFFSET $%d`,
		productColumns, productFrom, strings.Join(conditions, " AND "), argIndex, argIndex+1,
	)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var (
		products   []domain.Product
		totalCount int
	)

	for rows.Next() {
		var p domain.Product
		if err := scanProductFields(rows, &p, &totalCount); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, totalCount, nil
}

// IncrementView atomically adds 1 to the product's view counter.
func (r *CatalogRepository) IncrementView(ctx context.Context, id string) error {
	query := `UPDATE products SET view_count = view_count + 1 WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}

// FindPopular returns available products ordered by the composite popularity
// score: purchases weigh triple, views weigh single, featured adds 100.
func (r *CatalogRepository) FindPopular(ctx context.Context, limit int, excludeIDs []string) ([]domain.Product, error) {
	var (
		conditions = []string{"p.is_available = TRUE"}
		args       []any
		argIndex   = 1
	)

	if len(excludeIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("NOT (p.id = ANY($%d))", argIndex))
		args = append(args, excludeIDs)
		argIndex++
	}

	query := fmt.Sprintf(`
		SELECT %s
		%s
		WHERE %s
		ORDER BY (p.purchase_count * 3 + p.view_count + CASE WHEN p.is_featured THEN 100 ELSE 0 END) DESC,
			p.created_at DESC
		LIMIT $%d`,
		productColumns, productFrom, strings.Join(conditions, " AND "), argIndex,
	)
	args = append(args, limit)

	return r.queryProducts(ctx, query, args...)
}

// FindSimilarPriceBand returns available products in the category within the
// given price band.
func (r *CatalogRepository) FindSimilarPriceBand(ctx context.Context, categoryID string, low, high int64, excludeIDs []string, limit int) ([]domain.Product, error) {
	var (
		conditions = []string{
			"p.is_available = TRUE",
			"p.category_id = $1",
			"p.price BETWEEN $2 AND $3",
		}
		args     = []any{categoryID, low, high}
		argIndex = 4
	)

	if len(excludeIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("NOT (p.id = ANY($%d))", argIndex))
		args = append(args, excludeIDs)
		argIndex++
	}

	query := fmt.Sprintf(`
		SELECT %s
		%s
		WHERE %s
		ORDER BY p.view_count DESC, p.is_featured DESC, p.sort_order ASC
		LIMIT $%d`,
		productColumns, productFrom, strings.Join(conditions, " AND "), argIndex,
	)
	args = append(args, limit)

	return r.queryProducts(ctx, query, args...)
}

// FindSameCategory returns available products in the category regardless of price.
func (r *CatalogRepository) FindSameCategory(ctx context.Context, categoryID string, excludeIDs []string, limit int) ([]domain.Product, error) {
	var (
		conditions = []string{
			"p.is_available = TRUE",
			"p.category_id = $1",
		}
		args     = []any{categoryID}
		argIndex = 2
	)

	if len(excludeIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("NOT (p.id = ANY($%d))", argIndex))
		args = append(args, excludeIDs)
		argIndex++
	}

	query := fmt.Sprintf(`
		SELECT %s
		%s
		WHERE %s
		ORDER BY p.view_count DESC, p.sort_order ASC
		LIMIT $%d`,
		productColumns, productFrom, strings.Join(conditions, " AND "), argIndex,
	)
	args = append(args, limit)

	return r.queryProducts(ctx, query, args...)
}

// FindFeatured returns available featured products from any category.
func (r *CatalogRepository) FindFeatured(ctx context.Context, excludeIDs []string, limit int) ([]domain.Product, error) {
	var (
		conditions = []string{
			"p.is_available = TRUE",
			"p.is_featured = TRUE",
		}
		args     []any
		argIndex = 1
	)

	if len(excludeIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("NOT (p.id = ANY($%d))", argIndex))
		args = append(args, excludeIDs)
		argIndex++
	}

	query := fmt.Sprintf(`
		SELECT %s
		%s
		WHERE %s
		ORDER BY p.view_count DESC
		LIMIT $%d`,
		productColumns, productFrom, strings.Join(conditions, " AND "), argIndex,
	)
	args = append(args, limit)

	return r.queryProducts(ctx, query, args...)
}

// FindNew returns available products flagged as new, newest first.
func (r *CatalogRepository) FindNew(ctx context.Context, limit int) ([]domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		%s
		WHERE p.is_available = TRUE AND p.is_new = TRUE
		ORDER BY p.created_at DESC
		LIMIT $1`,
		productColumns, productFrom,
	)

	return r.queryProducts(ctx, query, limit)
}

// FindPromotional returns available promotional products.
func (r *CatalogRepository) FindPromotional(ctx context.Context, limit int) ([]domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		%s
		WHERE p.is_available = TRUE AND p.is_promotional = TRUE
		ORDER BY p.view_count DESC, p.sort_order ASC
		LIMIT $1`,
		productColumns, productFrom,
	)

	return r.queryProducts(ctx, query, limit)
}

// SuggestByPrefix returns available products whose name contains the prefix,
// prefix-anchored matches first, then by popularity, then by name.
func (r *CatalogRepository) SuggestByPrefix(ctx context.Context, prefix string, limit int) ([]domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		%s
		WHERE p.is_available = TRUE AND p.name ILIKE $1
		ORDER BY (CASE WHEN p.name ILIKE $2 THEN 0 ELSE 1 END) ASC,
			p.view_count DESC, p.name ASC
		LIMIT $3`,
		productColumns, productFrom,
	)

	escaped := escapeLike(prefix)
	return r.queryProducts(ctx, query, "%"+escaped+"%", escaped+"%", limit)
}

// queryProducts executes a query over the shared column list and scans all rows.
func (r *CatalogRepository) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanProductFields(rows, &p, nil); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, nil
}

// scanProduct executes a query expected to return a single product row.
func (r *CatalogRepository) scanProduct(ctx context.Context, query string, args ...any) (*domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.ShortDescription,
		&p.CategoryID, &p.CategorySlug,
		&p.Price, &p.OldPrice, &p.Currency, &p.ImageURL, &p.Unit,
		&p.IsAvailable, &p.IsFeatured, &p.IsNew, &p.IsPromotional,
		&p.ViewCount, &p.PurchaseCount, &p.SortOrder,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	return &p, nil
}

// scanProductFields scans one row from the shared column list. When totalCount
// is non-nil the row is expected to carry a trailing count(*) OVER() column.
func scanProductFields(rows pgx.Rows, p *domain.Product, totalCount *int) error {
	dest := []any{
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.ShortDescription,
		&p.CategoryID, &p.CategorySlug,
		&p.Price, &p.OldPrice, &p.Currency, &p.ImageURL, &p.Unit,
		&p.IsAvailable, &p.IsFeatured, &p.IsNew, &p.IsPromotional,
		&p.ViewCount, &p.PurchaseCount, &p.SortOrder,
		&p.CreatedAt, &p.UpdatedAt,
	}
	if totalCount != nil {
		dest = append(dest, totalCount)
	}

	if err := rows.Scan(dest...); err != nil {
		return fmt.Errorf("scan product row: %w", err)
	}
	return nil
}
