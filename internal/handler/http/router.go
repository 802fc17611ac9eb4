package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ErbolTakhirov/Abak-market/internal/service"
	"github.com/ErbolTakhirov/Abak-market/pkg/health"
	"github.com/ErbolTakhirov/Abak-market/pkg/middleware"
)

// Deps bundles everything the router needs.
type Deps struct {
	Search    *service.SearchService
	Recommend *service.RecommendService
	Catalog   *service.CatalogService
	Synonyms  *service.SynonymService
	Health    *health.Handler
	CORS      middleware.CORSConfig
	Logger    *slog.Logger
}

// NewRouter creates a chi router with all catalog service routes registered.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(deps.CORS))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics("catalog"))

	// Health check endpoints
	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	searchHandler := NewSearchHandler(deps.Search, deps.Logger)
	recommendHandler := NewRecommendHandler(deps.Recommend, deps.Logger)
	catalogHandler := NewCatalogHandler(deps.Catalog, deps.Logger)
	synonymHandler := NewSynonymHandler(deps.Synonyms, deps.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/search", func(r chi.Router) {
			// 60s matches the suggestion cache TTL.
			r.Use(middleware.CacheControl(60))
			r.Get("/", searchHandler.Search)
			r.Get("/suggest", searchHandler.Suggest)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogHandler.ListProducts)
			r.Get("/slug/{slug}", catalogHandler.GetProductBySlug)
			r.Get("/{id}", catalogHandler.GetProduct)
			r.Post("/{id}/view", catalogHandler.IncrementView)
			r.Get("/{id}/similar", recommendHandler.Similar)
		})

		r.Get("/categories", catalogHandler.ListCategories)

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/popular", recommendHandler.Popular)
			r.Get("/new", recommendHandler.New)
			r.Get("/promotional", recommendHandler.Promotional)
		})

		r.Route("/admin/synonyms", func(r chi.Router) {
			r.Get("/", synonymHandler.List)
			r.Group(func(r chi.Router) {
				r.Use(ContentTypeJSON)
				r.Post("/", synonymHandler.Create)
			})
			r.Delete("/{id}", synonymHandler.Delete)
		})
	})

	return r
}

// ContentTypeJSON rejects write requests without a JSON content type.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct != "" && ct != "application/json" && ct != "application/json; charset=utf-8" {
			http.Error(w, `{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`, http.StatusUnsupportedMediaType)
			return
		}
		next.ServeHTTP(w, r)
	})
}
