package cache

import (
	"context"
	"errors"

	"github.com/ErbolTakhirov/Abak-market/internal/domain"
)

// ErrCacheMiss signals that no entry exists for the requested key.
var ErrCacheMiss = errors.New("cache miss")

// ResultCache is the short-TTL store shared by search and autocomplete.
// It is best-effort: callers treat any error as a miss and recompute.
type ResultCache interface {
	// GetSearch returns the cached result for a normalized query and
	// category filter, or ErrCacheMiss.
	GetSearch(ctx context.Context, query, category string) (*domain.SearchResult, error)

	// SetSearch stores a search result under the query/category key.
	SetSearch(ctx context.Context, query, category string, result *domain.SearchResult) error

	// GetSuggestions returns the cached autocomplete payload for a prefix,
	// or ErrCacheMiss.
	GetSuggestions(ctx context.Context, prefix string) (*domain.Suggestions, error)

	// SetSuggestions stores an autocomplete payload under the prefix key.
	SetSuggestions(ctx context.Context, prefix string, s *domain.Suggestions) error
}
