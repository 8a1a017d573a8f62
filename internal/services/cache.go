package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tourist-hub-api/internal/config"
	"tourist-hub-api/internal/logger"
	"tourist-hub-api/internal/models"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss indicates the key was not found in cache
var ErrCacheMiss = errors.New("cache miss")

// Cache keys
const (
	cacheKeyTemplates      = "cache:tour_templates"
	cacheKeyTourEventsPrefix = "cache:tour_events"
)

// CacheService provides read-through caching on redis. All methods degrade
// gracefully: a redis failure is logged and treated as a miss, never surfaced
// to the caller.
type CacheService struct {
	logger       *logger.Logger
	client       *redis.Client
	enabled      bool
	tourEventTTL time.Duration
	templateTTL  time.Duration
}

// NewCacheService creates a new cache service
func NewCacheService(logger *logger.Logger, client *redis.Client, cfg *config.Config) *CacheService {
	return &CacheService{
		logger:       logger,
		client:       client,
		enabled:      cfg.Cache.Enabled,
		tourEventTTL: time.Duration(cfg.Cache.TourEventTTL) * time.Second,
		templateTTL:  time.Duration(cfg.Cache.TemplateTTL) * time.Second,
	}
}

// Get retrieves a value from cache
func (cs *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	if !cs.enabled {
		return ErrCacheMiss
	}

	val, err := cs.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache key %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return fmt.Errorf("failed to unmarshal cached value for key %s: %w", key, err)
	}
	return nil
}

// Set stores a value in cache with expiration
func (cs *CacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if !cs.enabled {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
	}

	if err := cs.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}
	return nil
}

// Delete removes a key from cache
func (cs *CacheService) Delete(ctx context.Context, key string) error {
	if !cs.enabled {
		return nil
	}
	if err := cs.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache key %s: %w", key, err)
	}
	return nil
}

// DeletePattern removes all keys matching a pattern
func (cs *CacheService) DeletePattern(ctx context.Context, pattern string) error {
	if !cs.enabled {
		return nil
	}

	keys, err := cs.client.Keys(ctx, pattern).Result()
	if err != nil {
		return fmt.Errorf("failed to get keys for pattern %s: %w", pattern, err)
	}
	if len(keys) > 0 {
		if err := cs.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete keys for pattern %s: %w", pattern, err)
		}
	}
	return nil
}

// GetTemplates loads the cached template catalog, reporting whether it was warm
func (cs *CacheService) GetTemplates(ctx context.Context, dest *[]*models.TourTemplate) bool {
	if err := cs.Get(ctx, cacheKeyTemplates, dest); err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			cs.logger.WithError(err).Warn("Template cache read failed")
		}
		return false
	}
	return true
}

// SetTemplates caches the template catalog
func (cs *CacheService) SetTemplates(ctx context.Context, templates []*models.TourTemplate) {
	if err := cs.Set(ctx, cacheKeyTemplates, templates, cs.templateTTL); err != nil {
		cs.logger.WithError(err).Warn("Template cache write failed")
	}
}

// InvalidateTemplates drops the cached template catalog
func (cs *CacheService) InvalidateTemplates(ctx context.Context) {
	if err := cs.Delete(ctx, cacheKeyTemplates); err != nil {
		cs.logger.WithError(err).Warn("Template cache invalidation failed")
	}
}

// TourEventsKey builds the cache key for one caller's scoped event listing
func (cs *CacheService) TourEventsKey(scope string) string {
	return fmt.Sprintf("%s:%s", cacheKeyTourEventsPrefix, scope)
}

// GetTourEvents loads a cached scoped event listing
func (cs *CacheService) GetTourEvents(ctx context.Context, scope string, dest *[]*models.TourEvent) bool {
	if err := cs.Get(ctx, cs.TourEventsKey(scope), dest); err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			cs.logger.WithError(err).Warn("Tour event cache read failed")
		}
		return false
	}
	return true
}

// SetTourEvents caches a scoped event listing
func (cs *CacheService) SetTourEvents(ctx context.Context, scope string, events []*models.TourEvent) {
	if err := cs.Set(ctx, cs.TourEventsKey(scope), events, cs.tourEventTTL); err != nil {
		cs.logger.WithError(err).Warn("Tour event cache write failed")
	}
}

// InvalidateTourEvents drops every cached event listing. Scoped listings share
// the prefix, so one event mutation clears all roles' views.
func (cs *CacheService) InvalidateTourEvents(ctx context.Context) {
	if err := cs.DeletePattern(ctx, cacheKeyTourEventsPrefix+":*"); err != nil {
		cs.logger.WithError(err).Warn("Tour event cache invalidation failed")
	}
}
