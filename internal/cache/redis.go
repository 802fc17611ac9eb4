package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ErbolTakhirov/Abak-market/internal/domain"
)

const (
	searchKeyPrefix  = "search:"
	suggestKeyPrefix = "suggestions:"
)

// RedisCache implements ResultCache backed by Redis with JSON values.
type RedisCache struct {
	client     *redis.Client
	searchTTL  time.Duration
	suggestTTL time.Duration
}

// NewRedisCache creates a Redis-backed result cache. Search entries live for
// searchTTL, autocomplete entries for the shorter suggestTTL.
func NewRedisCache(client *redis.Client, searchTTL, suggestTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     client,
		searchTTL:  searchTTL,
		suggestTTL: suggestTTL,
	}
}

func searchKey(query, category string) string {
	if category == "" {
		category = "all"
	}
	return searchKeyPrefix + query + ":" + category
}

// GetSearch returns the cached result for the query/category pair.
func (c *RedisCache) GetSearch(ctx context.Context, query, category string) (*domain.SearchResult, error) {
	var result domain.SearchResult
	if err := c.get(ctx, searchKey(query, category), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetSearch stores a search result, empty and sparse results included.
func (c *RedisCache) SetSearch(ctx context.Context, query, category string, result *domain.SearchResult) error {
	return c.set(ctx, searchKey(query, category), result, c.searchTTL)
}

// GetSuggestions returns the cached autocomplete payload for the prefix.
func (c *RedisCache) GetSuggestions(ctx context.Context, prefix string) (*domain.Suggestions, error) {
	var s domain.Suggestions
	if err := c.get(ctx, suggestKeyPrefix+prefix, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SetSuggestions stores an autocomplete payload under the prefix key.
func (c *RedisCache) SetSuggestions(ctx context.Context, prefix string, s *domain.Suggestions) error {
	return c.set(ctx, suggestKeyPrefix+prefix, s, c.suggestTTL)
}

func (c *RedisCache) get(ctx context.Context, key string, target any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("cache unmarshal %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}
