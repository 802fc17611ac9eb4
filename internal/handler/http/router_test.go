package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ErbolTakhirov/Abak-market/internal/cache"
	"github.com/ErbolTakhirov/Abak-market/internal/domain"
	"github.com/ErbolTakhirov/Abak-market/internal/event"
	"github.com/ErbolTakhirov/Abak-market/internal/repository"
	"github.com/ErbolTakhirov/Abak-market/internal/service"
	apperrors "github.com/ErbolTakhirov/Abak-market/pkg/errors"
	"github.com/ErbolTakhirov/Abak-market/pkg/health"
	"github.com/ErbolTakhirov/Abak-market/pkg/middleware"
)

// stubStore is a fixture-backed implementation of every repository interface,
// good enough to drive the full router in tests.
type stubStore struct {
	products   []domain.Product
	categories []domain.Category
	synonyms   []domain.SearchSynonym
	popular    []domain.PopularSearch
}

func (s *stubStore) SearchAvailable(_ context.Context, filter repository.SearchFilter) ([]domain.Product, error) {
	if len(filter.Variants) == 0 && len(filter.Tokens) == 0 {
		return []domain.Product{}, nil
	}
	var out []domain.Product
	for _, p := range s.products {
		if !p.IsAvailable {
			continue
		}
		if filter.CategorySlug != nil && p.CategorySlug != *filter.CategorySlug {
			continue
		}
		name := strings.ToLower(p.Name)
		for _, v := range filter.Variants {
			if strings.Contains(name, v) || strings.Contains(strings.ToLower(p.Description), v) {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (s *stubStore) GetByID(_ context.Context, id string) (*domain.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, apperrors.NotFound("product", id)
}

func (s *stubStore) GetBySlug(_ context.Context, slug string) (*domain.Product, error) {
	for i := range s.products {
		if s.products[i].Slug == slug {
			return &s.products[i], nil
		}
	}
	return nil, apperrors.NotFound("product", slug)
}

func (s *stubStore) List(_ context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	var out []domain.Product
	for _, p := range s.products {
		if !p.IsAvailable {
			continue
		}
		if filter.CategorySlug != nil && p.CategorySlug != *filter.CategorySlug {
			continue
		}
		if filter.OnlyFeatured && !p.IsFeatured {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (s *stubStore) IncrementView(_ context.Context, id string) error {
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i].ViewCount++
			return nil
		}
	}
	return apperrors.NotFound("product", id)
}

func (s *stubStore) FindPopular(_ context.Context, limit int, excludeIDs []string) ([]domain.Product, error) {
	return s.take(limit, excludeIDs, func(p *domain.Product) bool { return true }), nil
}

func (s *stubStore) FindSimilarPriceBand(_ context.Context, categoryID string, low, high int64, excludeIDs []string, limit int) ([]domain.Product, error) {
	return s.take(limit, excludeIDs, func(p *domain.Product) bool {
		return p.CategoryID != nil && *p.CategoryID == categoryID && p.Price >= low && p.Price <= high
	}), nil
}

func (s *stubStore) FindSameCategory(_ context.Context, categoryID string, excludeIDs []string, limit int) ([]domain.Product, error) {
	return s.take(limit, excludeIDs, func(p *domain.Product) bool {
		return p.CategoryID != nil && *p.CategoryID == categoryID
	}), nil
}

func (s *stubStore) FindFeatured(_ context.Context, excludeIDs []string, limit int) ([]domain.Product, error) {
	return s.take(limit, excludeIDs, func(p *domain.Product) bool { return p.IsFeatured }), nil
}

func (s *stubStore) FindNew(_ context.Context, limit int) ([]domain.Product, error) {
	return s.take(limit, nil, func(p *domain.Product) bool { return p.IsNew }), nil
}

func (s *stubStore) FindPromotional(_ context.Context, limit int) ([]domain.Product, error) {
	return s.take(limit, nil, func(p *domain.Product) bool { return p.IsPromotional }), nil
}

func (s *stubStore) SuggestByPrefix(_ context.Context, prefix string, limit int) ([]domain.Product, error) {
	return s.take(limit, nil, func(p *domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), prefix)
	}), nil
}

func (s *stubStore) take(limit int, excludeIDs []string, keep func(*domain.Product) bool) []domain.Product {
	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	out := []domain.Product{}
	for i := range s.products {
		p := &s.products[i]
		if len(out) >= limit || limit <= 0 {
			break
		}
		if !p.IsAvailable || excluded[p.ID] || !keep(p) {
			continue
		}
		out = append(out, *p)
	}
	return out
}

// CategoryRepository

func (s *stubStore) ListActive(_ context.Context) ([]domain.Category, error) {
	return s.categories, nil
}

func (s *stubStore) SuggestCategoriesByPrefix(_ context.Context, prefix string, limit int) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range s.categories {
		if len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(c.Name), prefix) {
			out = append(out, c)
		}
	}
	return out, nil
}

// categoryStore adapts stubStore to the CategoryRepository interface, whose
// GetBySlug and SuggestByPrefix signatures collide with CatalogRepository.
type categoryStore struct {
	store *stubStore
}

func (c categoryStore) GetBySlug(_ context.Context, slug string) (*domain.Category, error) {
	for i := range c.store.categories {
		if c.store.categories[i].Slug == slug {
			return &c.store.categories[i], nil
		}
	}
	return nil, apperrors.NotFound("category", slug)
}

func (c categoryStore) ListActive(ctx context.Context) ([]domain.Category, error) {
	return c.store.ListActive(ctx)
}

func (c categoryStore) SuggestByPrefix(ctx context.Context, prefix string, limit int) ([]domain.Category, error) {
	return c.store.SuggestCategoriesByPrefix(ctx, prefix, limit)
}

// SynonymRepository

func (s *stubStore) ListAll(_ context.Context) ([]domain.SearchSynonym, error) {
	return s.synonyms, nil
}

func (s *stubStore) Create(_ context.Context, syn *domain.SearchSynonym) error {
	for _, existing := range s.synonyms {
		if existing.Term == syn.Term && existing.Alternate == syn.Alternate {
			return apperrors.AlreadyExists("synonym", "pair", syn.Term+"/"+syn.Alternate)
		}
	}
	syn.ID = "syn-" + syn.Alternate
	syn.CreatedAt = time.Now()
	s.synonyms = append(s.synonyms, *syn)
	return nil
}

func (s *stubStore) Delete(_ context.Context, id string) error {
	for i, syn := range s.synonyms {
		if syn.ID == id {
			s.synonyms = append(s.synonyms[:i], s.synonyms[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFound("synonym", id)
}

// SearchLogRepository

func (s *stubStore) LogSearch(_ context.Context, query string, resultsCount int) error {
	for i := range s.popular {
		if s.popular[i].Query == query {
			s.popular[i].SearchCount++
			s.popular[i].ResultsCount = resultsCount
			return nil
		}
	}
	s.popular = append(s.popular, domain.PopularSearch{
		ID: "ps-" + query, Query: query, SearchCount: 1, ResultsCount: resultsCount,
	})
	return nil
}

func (s *stubStore) RecentQueries(_ context.Context, limit int, exclude string) ([]domain.PopularSearch, error) {
	out := []domain.PopularSearch{}
	for _, p := range s.popular {
		if len(out) >= limit {
			break
		}
		if p.Query == exclude || p.ResultsCount == 0 {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *stubStore) SuggestQueriesByPrefix(_ context.Context, prefix string, limit int) ([]domain.PopularSearch, error) {
	out := []domain.PopularSearch{}
	for _, p := range s.popular {
		if len(out) >= limit {
			break
		}
		if p.ResultsCount > 0 && strings.HasPrefix(p.Query, prefix) {
			out = append(out, p)
		}
	}
	return out, nil
}

// searchLogStore disambiguates the SuggestByPrefix collision on stubStore.
type searchLogStore struct {
	store *stubStore
}

func (l searchLogStore) LogSearch(ctx context.Context, query string, resultsCount int) error {
	return l.store.LogSearch(ctx, query, resultsCount)
}

func (l searchLogStore) RecentQueries(ctx context.Context, limit int, exclude string) ([]domain.PopularSearch, error) {
	return l.store.RecentQueries(ctx, limit, exclude)
}

func (l searchLogStore) SuggestByPrefix(ctx context.Context, prefix string, limit int) ([]domain.PopularSearch, error) {
	return l.store.SuggestQueriesByPrefix(ctx, prefix, limit)
}

// noopCache always misses so every request exercises the full path.
type noopCache struct{}

func (noopCache) GetSearch(context.Context, string, string) (*domain.SearchResult, error) {
	return nil, cache.ErrCacheMiss
}

func (noopCache) SetSearch(context.Context, string, string, *domain.SearchResult) error { return nil }

func (noopCache) GetSuggestions(context.Context, string) (*domain.Suggestions, error) {
	return nil, cache.ErrCacheMiss
}

func (noopCache) SetSuggestions(context.Context, string, *domain.Suggestions) error { return nil }

func dairyID() *string {
	id := "cat-dairy"
	return &id
}

func newStubStore() *stubStore {
	return &stubStore{
		products: []domain.Product{
			{
				ID: "p-milk", Name: "Milk 3.2%", Slug: "milk-3-2", Description: "Whole milk",
				CategoryID: dairyID(), CategorySlug: "dairy", Price: 9000, Currency: "KGS",
				IsAvailable: true, IsFeatured: true, ViewCount: 120, PurchaseCount: 40,
			},
			{
				ID: "p-kefir", Name: "Kefir 2.5%", Slug: "kefir-2-5", Description: "Fermented milk drink",
				CategoryID: dairyID(), CategorySlug: "dairy", Price: 8000, Currency: "KGS",
				IsAvailable: true, IsNew: true, ViewCount: 60, PurchaseCount: 10,
			},
			{
				ID: "p-bread", Name: "White Bread", Slug: "white-bread", Description: "Fresh loaf",
				CategorySlug: "", Price: 4000, Currency: "KGS",
				IsAvailable: true, IsPromotional: true, ViewCount: 30, PurchaseCount: 25,
			},
			{
				ID: "p-hidden", Name: "Hidden Milkshake", Slug: "hidden-milkshake",
				CategorySlug: "dairy", Price: 12000, Currency: "KGS",
				IsAvailable: false,
			},
		},
		categories: []domain.Category{
			{ID: "cat-dairy", Name: "Dairy", Slug: "dairy", Type: domain.CategoryTypeProducts, IsActive: true, ProductCount: 2},
		},
		synonyms: []domain.SearchSynonym{
			{ID: "syn-1", Term: "milk", Alternate: "moloko", CreatedAt: time.Now()},
		},
		popular: []domain.PopularSearch{
			{ID: "ps-1", Query: "milk", SearchCount: 12, ResultsCount: 2},
		},
	}
}

func newTestRouter(store *stubStore) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	events := event.NewProducer(nil, logger)

	categories := categoryStore{store: store}
	searchLog := searchLogStore{store: store}

	index := service.NewSynonymIndex(store, time.Minute, logger)
	searchSvc := service.NewSearchService(store, categories, searchLog, index, noopCache{}, events, service.DefaultSearchConfig(), logger)
	recommendSvc := service.NewRecommendService(store, logger)
	catalogSvc := service.NewCatalogService(store, categories, events, logger)
	synonymSvc := service.NewSynonymService(store, index, logger)

	return NewRouter(Deps{
		Search:    searchSvc,
		Recommend: recommendSvc,
		Catalog:   catalogSvc,
		Synonyms:  synonymSvc,
		Health:    health.NewHandler(),
		CORS:      middleware.DefaultCORSConfig(),
		Logger:    logger,
	})
}
