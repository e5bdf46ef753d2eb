package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/callcrm/backend/internal/domain/identity"
	"github.com/callcrm/backend/internal/infrastructure/config"
)

// PermissionCacheFactory creates permission caches based on configuration
type PermissionCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// PermissionCacheFactoryOption is a functional option for configuring the factory
type PermissionCacheFactoryOption func(*PermissionCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) PermissionCacheFactoryOption {
	return func(f *PermissionCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) PermissionCacheFactoryOption {
	return func(f *PermissionCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewPermissionCacheFactory creates a new factory
func NewPermissionCacheFactory(cfg config.RedisConfig, opts ...PermissionCacheFactoryOption) *PermissionCacheFactory {
	f := &PermissionCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCache creates a Redis-based permission cache
func (f *PermissionCacheFactory) CreateRedisCache() (identity.PermissionCache, error) {
	cache, err := NewRedisPermissionCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis permission cache: %w", err)
	}

	return cache, nil
}

// CreateInMemoryCache creates an in-memory permission cache.
// In-memory caches do not share state across process instances, so role
// changes may take up to the TTL to propagate in multi-instance deployments.
func (f *PermissionCacheFactory) CreateInMemoryCache() identity.PermissionCache {
	return NewInMemoryPermissionCache(WithInMemoryLogger(f.logger))
}

// CreateCache creates a permission cache, trying Redis first and falling
// back to in-memory when allowed.
func (f *PermissionCacheFactory) CreateCache() (identity.PermissionCache, error) {
	cache, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis permission cache")
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for permission cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory permission cache. "+
		"Role changes may be delayed across instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryCache(), nil
}
