package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ErbolTakhirov/Abak-market/internal/cache"
	"github.com/ErbolTakhirov/Abak-market/internal/domain"
	"github.com/ErbolTakhirov/Abak-market/internal/repository"
)

// --- Mock repositories ---

type mockCatalogRepo struct {
	mock.Mock
}

func (m *mockCatalogRepo) SearchAvailable(ctx context.Context, filter repository.SearchFilter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockCatalogRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockCatalogRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockCatalogRepo) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockCatalogRepo) IncrementView(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCatalogRepo) FindPopular(ctx context.Context, limit int, excludeIDs []string) ([]domain.Product, error) {
	args := m.Called(ctx, limit, excludeIDs)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockCatalogRepo) FindSimilarPriceBand(ctx context.Context, categoryID string, low, high int64, excludeIDs []string, limit int) ([]domain.Product, error) {
	args := m.Called(ctx, categoryID, low, high, excludeIDs, limit)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockCatalogRepo) FindSameCategory(ctx context.Context, categoryID string, excludeIDs []string, limit int) ([]domain.Product, error) {
	args := m.Called(ctx, categoryID, excludeIDs, limit)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockCatalogRepo) FindFeatured(ctx context.Context, excludeIDs []string, limit int) ([]domain.Product, error) {
	args := m.Called(ctx, excludeIDs, limit)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockCatalogRepo) FindNew(ctx context.Context, limit int) ([]domain.Product, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockCatalogRepo) FindPromotional(ctx context.Context, limit int) ([]domain.Product, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockCatalogRepo) SuggestByPrefix(ctx context.Context, prefix string, limit int) ([]domain.Product, error) {
	args := m.Called(ctx, prefix, limit)
	return args.Get(0).([]domain.Product), args.Error(1)
}

type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) ListActive(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) SuggestByPrefix(ctx context.Context, prefix string, limit int) ([]domain.Category, error) {
	args := m.Called(ctx, prefix, limit)
	return args.Get(0).([]domain.Category), args.Error(1)
}

type mockSynonymRepo struct {
	mock.Mock
}

func (m *mockSynonymRepo) ListAll(ctx context.Context) ([]domain.SearchSynonym, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.SearchSynonym), args.Error(1)
}

func (m *mockSynonymRepo) Create(ctx context.Context, syn *domain.SearchSynonym) error {
	args := m.Called(ctx, syn)
	return args.Error(0)
}

func (m *mockSynonymRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockSearchLogRepo struct {
	mock.Mock
}

func (m *mockSearchLogRepo) LogSearch(ctx context.Context, query string, resultsCount int) error {
	args := m.Called(ctx, query, resultsCount)
	return args.Error(0)
}

func (m *mockSearchLogRepo) RecentQueries(ctx context.Context, limit int, exclude string) ([]domain.PopularSearch, error) {
	args := m.Called(ctx, limit, exclude)
	return args.Get(0).([]domain.PopularSearch), args.Error(1)
}

func (m *mockSearchLogRepo) SuggestByPrefix(ctx context.Context, prefix string, limit int) ([]domain.PopularSearch, error) {
	args := m.Called(ctx, prefix, limit)
	return args.Get(0).([]domain.PopularSearch), args.Error(1)
}

// --- In-memory cache fake ---

// fakeCache is a map-backed ResultCache without TTL expiry. Setting broken
// makes every call fail, exercising the degrade-to-recompute path.
type fakeCache struct {
	searches    map[string]*domain.SearchResult
	suggestions map[string]*domain.Suggestions
	broken      bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		searches:    make(map[string]*domain.SearchResult),
		suggestions: make(map[string]*domain.Suggestions),
	}
}

func (c *fakeCache) key(query, category string) string {
	if category == "" {
		category = "all"
	}
	return query + ":" + category
}

func (c *fakeCache) GetSearch(_ context.Context, query, category string) (*domain.SearchResult, error) {
	if c.broken {
		return nil, errors.New("cache unavailable")
	}
	if r, ok := c.searches[c.key(query, category)]; ok {
		return r, nil
	}
	return nil, cache.ErrCacheMiss
}

func (c *fakeCache) SetSearch(_ context.Context, query, category string, result *domain.SearchResult) error {
	if c.broken {
		return errors.New("cache unavailable")
	}
	c.searches[c.key(query, category)] = result
	return nil
}

func (c *fakeCache) GetSuggestions(_ context.Context, prefix string) (*domain.Suggestions, error) {
	if c.broken {
		return nil, errors.New("cache unavailable")
	}
	if s, ok := c.suggestions[prefix]; ok {
		return s, nil
	}
	return nil, cache.ErrCacheMiss
}

func (c *fakeCache) SetSuggestions(_ context.Context, prefix string, s *domain.Suggestions) error {
	if c.broken {
		return errors.New("cache unavailable")
	}
	c.suggestions[prefix] = s
	return nil
}

// --- Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestSynonymIndex(repo *mockSynonymRepo) *SynonymIndex {
	return NewSynonymIndex(repo, time.Minute, newTestLogger())
}

func strPtr(s string) *string { return &s }
