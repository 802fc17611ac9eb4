package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ErbolTakhirov/Abak-market/internal/cache"
	"github.com/ErbolTakhirov/Abak-market/internal/domain"
	"github.com/ErbolTakhirov/Abak-market/internal/event"
	"github.com/ErbolTakhirov/Abak-market/internal/repository"
)

const (
	// maxQueryLength bounds what gets logged to the popular-search table.
	maxQueryLength = 100
	// minQueryLength is the shortest query worth logging.
	minQueryLength = 2
	// minPrefixLength is the shortest autocomplete prefix served.
	minPrefixLength = 2

	// fallbackCandidates is how many past queries are considered for the
	// "did you mean" fallback; fallbackKeep is how many survive.
	fallbackCandidates = 20
	fallbackKeep       = 5
)

var (
	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_searches_total",
		Help: "Total number of search requests by outcome.",
	}, []string{"outcome"})

	suggestionFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_suggestion_fallbacks_total",
		Help: "Number of searches that triggered the did-you-mean fallback.",
	})
)

// SearchConfig holds the tunables of the search engine.
type SearchConfig struct {
	Weights            domain.ScoringWeights
	FuzzyThreshold     float64
	FallbackMinResults int
}

// DefaultSearchConfig returns the production tuning.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		Weights:            domain.DefaultWeights(),
		FuzzyThreshold:     0.6,
		FallbackMinResults: 3,
	}
}

// SearchService implements product search and autocomplete: synonym
// expansion, multi-field matching, tiered relevance scoring, result caching,
// search logging and fuzzy suggestion fallback.
type SearchService struct {
	catalog    repository.CatalogRepository
	categories repository.CategoryRepository
	searchLog  repository.SearchLogRepository
	synonyms   *SynonymIndex
	cache      cache.ResultCache
	events     *event.Producer
	logger     *slog.Logger
	cfg        SearchConfig
}

// NewSearchService creates a search service.
func NewSearchService(
	catalog repository.CatalogRepository,
	categories repository.CategoryRepository,
	searchLog repository.SearchLogRepository,
	synonyms *SynonymIndex,
	resultCache cache.ResultCache,
	events *event.Producer,
	cfg SearchConfig,
	logger *slog.Logger,
) *SearchService {
	return &SearchService{
		catalog:    catalog,
		categories: categories,
		searchLog:  searchLog,
		synonyms:   synonyms,
		cache:      resultCache,
		events:     events,
		logger:     logger,
		cfg:        cfg,
	}
}

// Search runs a ranked product search. An empty query returns an empty result
// with no cache or log side effects. Within the cache TTL an identical
// query/category pair is served from cache without re-logging.
func (s *SearchService) Search(ctx context.Context, query, categorySlug string, limit int) (*domain.SearchResult, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		searchesTotal.WithLabelValues("empty").Inc()
		return emptyResult(categorySlug), nil
	}

	if cached, err := s.cache.GetSearch(ctx, query, categorySlug); err == nil {
		searchesTotal.WithLabelValues("cache_hit").Inc()
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.WarnContext(ctx, "search cache read failed, recomputing",
			slog.String("error", err.Error()),
		)
	}

	filter := repository.SearchFilter{
		Variants: s.synonyms.Expand(ctx, query),
	}
	filter.Tokens = variantTokens(filter.Variants)

	if categorySlug != "" {
		if _, err := s.categories.GetBySlug(ctx, categorySlug); err != nil {
			return nil, fmt.Errorf("resolve category %q: %w", categorySlug, err)
		}
		filter.CategorySlug = &categorySlug
	}

	matched, err := s.catalog.SearchAvailable(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search catalog: %w", err)
	}

	s.rank(matched, query)

	total := len(matched)
	if limit > 0 && total > limit {
		matched = matched[:limit]
	}

	result := &domain.SearchResult{
		Products:    matched,
		Total:       total,
		Category:    categorySlug,
		Suggestions: []domain.QuerySuggestion{},
	}

	// The log write is a best-effort side effect: a failed write never fails
	// the search itself.
	s.logQuery(ctx, query, total)
	s.events.SearchPerformed(ctx, query, categorySlug, total)

	if total < s.cfg.FallbackMinResults {
		result.Suggestions = s.fallbackSuggestions(ctx, query)
	}

	if err := s.cache.SetSearch(ctx, query, categorySlug, result); err != nil {
		s.logger.WarnContext(ctx, "search cache write failed",
			slog.String("error", err.Error()),
		)
	}

	searchesTotal.WithLabelValues("computed").Inc()
	return result, nil
}

// Suggest serves prefix autocomplete across products, categories and popular
// queries. Prefixes shorter than two characters yield empty lists without
// touching cache or storage.
func (s *SearchService) Suggest(ctx context.Context, prefix string, limit int) (*domain.Suggestions, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if len([]rune(prefix)) < minPrefixLength {
		return emptySuggestions(), nil
	}
	if limit <= 0 {
		limit = 8
	}

	if cached, err := s.cache.GetSuggestions(ctx, prefix); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.WarnContext(ctx, "suggestion cache read failed, recomputing",
			slog.String("error", err.Error()),
		)
	}

	products, err := s.catalog.SuggestByPrefix(ctx, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("suggest products: %w", err)
	}

	half := limit / 2
	if half < 1 {
		half = 1
	}

	categories, err := s.categories.SuggestByPrefix(ctx, prefix, half)
	if err != nil {
		return nil, fmt.Errorf("suggest categories: %w", err)
	}

	queries, err := s.searchLog.SuggestByPrefix(ctx, prefix, half)
	if err != nil {
		return nil, fmt.Errorf("suggest queries: %w", err)
	}

	suggestions := &domain.Suggestions{
		Products:   products,
		Categories: categories,
		Queries:    queries,
	}

	if err := s.cache.SetSuggestions(ctx, prefix, suggestions); err != nil {
		s.logger.WarnContext(ctx, "suggestion cache write failed",
			slog.String("error", err.Error()),
		)
	}

	return suggestions, nil
}

// rank sorts products by relevance score descending, then view count
// descending, then manual sort order ascending.
func (s *SearchService) rank(products []domain.Product, query string) {
	scores := make(map[string]int, len(products))
	for i := range products {
		scores[products[i].ID] = s.cfg.Weights.Score(&products[i], query)
	}

	sort.SliceStable(products, func(i, j int) bool {
		si, sj := scores[products[i].ID], scores[products[j].ID]
		if si != sj {
			return si > sj
		}
		if products[i].ViewCount != products[j].ViewCount {
			return products[i].ViewCount > products[j].ViewCount
		}
		return products[i].SortOrder < products[j].SortOrder
	})
}

// logQuery upserts the popular-search record for the query. Queries outside
// the length bounds are skipped.
func (s *SearchService) logQuery(ctx context.Context, query string, total int) {
	if len([]rune(query)) < minQueryLength {
		return
	}
	if runes := []rune(query); len(runes) > maxQueryLength {
		query = string(runes[:maxQueryLength])
	}

	if err := s.searchLog.LogSearch(ctx, query, total); err != nil {
		s.logger.WarnContext(ctx, "search log write failed, continuing",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
	}
}

// fallbackSuggestions computes "did you mean" candidates from past queries
// that produced results: similarity above the threshold, best first, top 5.
func (s *SearchService) fallbackSuggestions(ctx context.Context, query string) []domain.QuerySuggestion {
	suggestionFallbacksTotal.Inc()

	candidates, err := s.searchLog.RecentQueries(ctx, fallbackCandidates, query)
	if err != nil {
		s.logger.WarnContext(ctx, "suggestion fallback lookup failed",
			slog.String("error", err.Error()),
		)
		return []domain.QuerySuggestion{}
	}

	suggestions := make([]domain.QuerySuggestion, 0, len(candidates))
	for _, c := range candidates {
		ratio := similarityRatio(query, c.Query)
		if ratio > s.cfg.FuzzyThreshold {
			suggestions = append(suggestions, domain.QuerySuggestion{
				Query:      c.Query,
				Count:      c.ResultsCount,
				Similarity: ratio,
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Similarity > suggestions[j].Similarity
	})

	if len(suggestions) > fallbackKeep {
		suggestions = suggestions[:fallbackKeep]
	}
	return suggestions
}

// variantTokens collects the distinct whitespace tokens (length >= 2) across
// all variants, skipping tokens identical to a whole variant.
func variantTokens(variants []string) []string {
	whole := make(map[string]bool, len(variants))
	for _, v := range variants {
		whole[v] = true
	}

	var tokens []string
	seen := map[string]bool{}
	for _, v := range variants {
		for _, token := range strings.Fields(v) {
			if len([]rune(token)) < 2 || whole[token] || seen[token] {
				continue
			}
			seen[token] = true
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func emptyResult(categorySlug string) *domain.SearchResult {
	return &domain.SearchResult{
		Products:    []domain.Product{},
		Total:       0,
		Category:    categorySlug,
		Suggestions: []domain.QuerySuggestion{},
	}
}

func emptySuggestions() *domain.Suggestions {
	return &domain.Suggestions{
		Products:   []domain.Product{},
		Categories: []domain.Category{},
		Queries:    []domain.PopularSearch{},
	}
}
