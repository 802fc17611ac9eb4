package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ErbolTakhirov/Abak-market/internal/cache"
	"github.com/ErbolTakhirov/Abak-market/internal/config"
	"github.com/ErbolTakhirov/Abak-market/internal/event"
	handler "github.com/ErbolTakhirov/Abak-market/internal/handler/http"
	"github.com/ErbolTakhirov/Abak-market/internal/repository/postgres"
	"github.com/ErbolTakhirov/Abak-market/internal/service"
	"github.com/ErbolTakhirov/Abak-market/migrations"
	"github.com/ErbolTakhirov/Abak-market/pkg/database"
	"github.com/ErbolTakhirov/Abak-market/pkg/health"
	pkgkafka "github.com/ErbolTakhirov/Abak-market/pkg/kafka"
	"github.com/ErbolTakhirov/Abak-market/pkg/middleware"
	"github.com/ErbolTakhirov/Abak-market/pkg/tracing"
)

// App wires together all dependencies and runs the catalog service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	pool            *pgxpool.Pool
	redisClient     *redis.Client
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Tracing.
	traceCfg := tracing.DefaultConfig("catalog-service")
	traceCfg.Environment = cfg.Environment
	traceCfg.OTLPEndpoint = cfg.OTLPEndpoint
	traceCfg.SampleRate = cfg.TraceSampleRate
	traceCfg.Enabled = cfg.TracingEnabled

	tracingShutdown, err := tracing.InitTracer(ctx, traceCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// PostgreSQL connection pool.
	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Redis result cache.
	redisClient, err := database.NewRedisClient(ctx, cfg.Redis())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("host", cfg.RedisHost),
		slog.Int("port", cfg.RedisPort),
	)

	// Kafka producer, optional.
	var producer *pkgkafka.Producer
	var publisher event.Publisher
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = producer
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("kafka disabled, domain events will not be published")
	}

	// Build the dependency graph.
	catalogRepo := postgres.NewCatalogRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	synonymRepo := postgres.NewSynonymRepository(pool)
	searchLogRepo := postgres.NewSearchLogRepository(pool)

	resultCache := cache.NewRedisCache(redisClient, cfg.SearchCacheTTL, cfg.SuggestCacheTTL)
	eventProducer := event.NewProducer(publisher, logger)
	synonymIndex := service.NewSynonymIndex(synonymRepo, cfg.SynonymReloadPeriod, logger)

	searchCfg := service.DefaultSearchConfig()
	searchCfg.FuzzyThreshold = cfg.FuzzyThreshold
	searchCfg.FallbackMinResults = cfg.FallbackMinResults

	searchService := service.NewSearchService(
		catalogRepo, categoryRepo, searchLogRepo,
		synonymIndex, resultCache, eventProducer, searchCfg, logger,
	)
	recommendService := service.NewRecommendService(catalogRepo, logger)
	catalogService := service.NewCatalogService(catalogRepo, categoryRepo, eventProducer, logger)
	synonymService := service.NewSynonymService(synonymRepo, synonymIndex, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	if producer != nil {
		healthHandler.Register("kafka", func(ctx context.Context) error {
			return producer.Ping(ctx)
		})
	}

	// HTTP router.
	router := handler.NewRouter(handler.Deps{
		Search:    searchService,
		Recommend: recommendService,
		Catalog:   catalogService,
		Synonyms:  synonymService,
		Health:    healthHandler,
		CORS:      middleware.DefaultCORSConfig(),
		Logger:    logger,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		pool:            pool,
		redisClient:     redisClient,
		producer:        producer,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if err := a.redisClient.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.pool.Close()

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
