package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ErbolTakhirov/Abak-market/internal/domain"
	"github.com/ErbolTakhirov/Abak-market/pkg/database"
)

// SearchLogRepository implements repository.SearchLogRepository using PostgreSQL.
type SearchLogRepository struct {
	db database.DBTX
}

// NewSearchLogRepository creates a new PostgreSQL-backed search log repository.
func NewSearchLogRepository(db database.DBTX) *SearchLogRepository {
	return &SearchLogRepository{db: db}
}

// LogSearch records a search as a single atomic upsert. Concurrent searches
// for the same query never lose increments.
func (r *SearchLogRepository) LogSearch(ctx context.Context, query string, resultsCount int) error {
	stmt := `
		INSERT INTO popular_searches (id, query, search_count, results_count, last_searched)
		VALUES ($1, $2, 1, $3, NOW())
		ON CONFLICT (query) DO UPDATE
		SET search_count = popular_searches.search_count + 1,
			results_count = EXCLUDED.results_count,
			last_searched = NOW()`

	_, err := r.db.Exec(ctx, stmt, uuid.New().String(), query, resultsCount)
	if err != nil {
		return fmt.Errorf("log search: %w", err)
	}

	return nil
}

// RecentQueries returns up to limit past queries with nonzero results,
// most searched first, excluding the given query.
func (r *SearchLogRepository) RecentQueries(ctx context.Context, limit int, exclude string) ([]domain.PopularSearch, error) {
	query := `
		SELECT id, query, search_count, results_count, last_searched
		FROM popular_searches
		WHERE results_count > 0 AND query <> $1
		ORDER BY search_count DESC, last_searched DESC
		LIMIT $2`

	return r.querySearches(ctx, query, exclude, limit)
}

// SuggestByPrefix returns past queries starting with the prefix that had
// nonzero results, most searched first.
func (r *SearchLogRepository) SuggestByPrefix(ctx context.Context, prefix string, limit int) ([]domain.PopularSearch, error) {
	query := `
		SELECT id, query, search_count, results_count, last_searched
		FROM popular_searches
		WHERE results_count > 0 AND query LIKE $1
		ORDER BY search_count DESC
		LIMIT $2`

	return r.querySearches(ctx, query, escapeLike(prefix)+"%", limit)
}

func (r *SearchLogRepository) querySearches(ctx context.Context, query string, args ...any) ([]domain.PopularSearch, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query popular searches: %w", err)
	}
	defer rows.Close()

	var searches []domain.PopularSearch
	for rows.Next() {
		var s domain.PopularSearch
		if err := rows.Scan(&s.ID, &s.Query, &s.SearchCount, &s.ResultsCount, &s.LastSearched); err != nil {
			return nil, fmt.Errorf("scan popular search row: %w", err)
		}
		searches = append(searches, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate popular search rows: %w", err)
	}

	if searches == nil {
		searches = []domain.PopularSearch{}
	}

	return searches, nil
}
