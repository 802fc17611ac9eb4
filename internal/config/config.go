package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/ErbolTakhirov/Abak-market/pkg/config"
	"github.com/ErbolTakhirov/Abak-market/pkg/database"
)

// Config holds all configuration for the catalog service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// PostgreSQL
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"abak"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"abak_secret"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"abak_market"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	// Redis
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`

	// Search
	SearchCacheTTL      time.Duration `env:"SEARCH_CACHE_TTL" envDefault:"300s"`
	SuggestCacheTTL     time.Duration `env:"SUGGEST_CACHE_TTL" envDefault:"60s"`
	FuzzyThreshold      float64       `env:"SEARCH_FUZZY_THRESHOLD" envDefault:"0.6"`
	FallbackMinResults  int           `env:"SEARCH_FALLBACK_MIN_RESULTS" envDefault:"3"`
	SynonymReloadPeriod time.Duration `env:"SYNONYM_RELOAD_PERIOD" envDefault:"5m"`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint    string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSampleRate float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load catalog config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.FuzzyThreshold < 0 || c.FuzzyThreshold > 1 {
		return fmt.Errorf("fuzzy threshold must be in [0, 1], got %v", c.FuzzyThreshold)
	}
	if c.FallbackMinResults < 0 {
		return fmt.Errorf("fallback min results must be non-negative, got %d", c.FallbackMinResults)
	}
	return nil
}

// Postgres builds the pool configuration from the loaded settings.
func (c *Config) Postgres() *database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = c.PostgresHost
	pg.Port = c.PostgresPort
	pg.User = c.PostgresUser
	pg.Password = c.PostgresPassword
	pg.DBName = c.PostgresDB
	pg.SSLMode = c.PostgresSSLMode
	return &pg
}

// Redis builds the Redis client configuration from the loaded settings.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}
