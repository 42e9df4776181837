package cache

import (
	"context"
	"fmt"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// StatusCacheFactory builds the approval status lookup chain based on configuration
type StatusCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StatusCacheFactoryOption is a functional option for configuring the factory
type StatusCacheFactoryOption func(*StatusCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StatusCacheFactoryOption {
	return func(f *StatusCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory caching when Redis is unavailable
// Default is true (allow fallback)
func WithInMemoryFallback(allow bool) StatusCacheFactoryOption {
	return func(f *StatusCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStatusCacheFactory creates a new factory
func NewStatusCacheFactory(cfg config.RedisConfig, opts ...StatusCacheFactoryOption) *StatusCacheFactory {
	f := &StatusCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCache creates a Redis-backed cache in front of source
func (f *StatusCacheFactory) CreateRedisCache(source approval.StatusLookup) (*RedisStatusCache, error) {
	redisCfg := RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}

	c, err := NewRedisStatusCache(redisCfg, source,
		WithStatusCacheLogger(f.logger),
		WithStatusCacheTTL(f.redisConfig.StatusCacheTTL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis status cache: %w", err)
	}
	return c, nil
}

// LayeredLookup is the in-process status cache, optionally backed by Redis
type LayeredLookup struct {
	*InMemoryStatusCache
	redis *RedisStatusCache
}

// Ping checks the Redis layer; it succeeds when Redis is not in use
func (l *LayeredLookup) Ping(ctx context.Context) error {
	if l.redis == nil {
		return nil
	}
	return l.redis.Ping(ctx)
}

// UsesRedis reports whether a Redis layer is in place
func (l *LayeredLookup) UsesRedis() bool {
	return l.redis != nil
}

// Close releases the Redis client, if any
func (l *LayeredLookup) Close() error {
	if l.redis == nil {
		return nil
	}
	return l.redis.Close()
}

// CreateLookup returns an in-process cache, layered over Redis when Redis
// is enabled
func (f *StatusCacheFactory) CreateLookup(source approval.StatusLookup) (*LayeredLookup, error) {
	if !f.redisConfig.Enabled {
		return &LayeredLookup{InMemoryStatusCache: NewInMemoryStatusCache(source, f.redisConfig.StatusCacheTTL)}, nil
	}

	redisCache, err := f.CreateRedisCache(source)
	if err == nil {
		f.logger.Info("using Redis approval status cache")
		return &LayeredLookup{
			InMemoryStatusCache: NewInMemoryStatusCache(redisCache, f.redisConfig.StatusCacheTTL),
			redis:               redisCache,
		}, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for status cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory approval status cache", zap.Error(err))
	return &LayeredLookup{InMemoryStatusCache: NewInMemoryStatusCache(source, f.redisConfig.StatusCacheTTL)}, nil
}
