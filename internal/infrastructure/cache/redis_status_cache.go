package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	statusByNameKey = "approval_status:by_name"
	statusByIDKey   = "approval_status:by_id"
)

// RedisStatusCache shares approval status catalog lookups between
// instances through two Redis hashes. Redis failures fall through to the
// source so the catalog stays readable when the cache is down.
type RedisStatusCache struct {
	client     *redis.Client
	ownsClient bool
	source     approval.StatusLookup
	ttl        time.Duration
	logger     *zap.Logger
}

// RedisStatusCacheOption is a functional option for configuring the cache
type RedisStatusCacheOption func(*RedisStatusCache)

// WithStatusCacheLogger sets the logger for the cache
func WithStatusCacheLogger(logger *zap.Logger) RedisStatusCacheOption {
	return func(c *RedisStatusCache) {
		c.logger = logger
	}
}

// WithStatusCacheTTL sets the expiry of the cached hashes
func WithStatusCacheTTL(ttl time.Duration) RedisStatusCacheOption {
	return func(c *RedisStatusCache) {
		c.ttl = ttl
	}
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisStatusCache connects to Redis and wraps source
func NewRedisStatusCache(cfg RedisConfig, source approval.StatusLookup, opts ...RedisStatusCacheOption) (*RedisStatusCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c := NewRedisStatusCacheWithClient(client, source, opts...)
	c.ownsClient = true
	return c, nil
}

// NewRedisStatusCacheWithClient creates a cache with an existing Redis client
// Note: The caller retains ownership of the client and is responsible for closing it
func NewRedisStatusCacheWithClient(client *redis.Client, source approval.StatusLookup, opts ...RedisStatusCacheOption) *RedisStatusCache {
	c := &RedisStatusCache{
		client: client,
		source: source,
		ttl:    time.Hour,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IDFor returns the catalog id of state
func (c *RedisStatusCache) IDFor(ctx context.Context, state approval.State) (int64, error) {
	raw, err := c.client.HGet(ctx, statusByNameKey, state.String()).Result()
	if err == nil {
		if id, parseErr := strconv.ParseInt(raw, 10, 64); parseErr == nil {
			return id, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("Status cache read failed, using catalog", zap.String("status", state.String()), zap.Error(err))
	}

	id, err := c.source.IDFor(ctx, state)
	if err != nil {
		return 0, err
	}
	c.store(ctx, state, id)
	return id, nil
}

// StateFor returns the state stored under a catalog id
func (c *RedisStatusCache) StateFor(ctx context.Context, id int64) (approval.State, error) {
	raw, err := c.client.HGet(ctx, statusByIDKey, strconv.FormatInt(id, 10)).Result()
	if err == nil {
		if state, parseErr := approval.ParseState(raw); parseErr == nil {
			return state, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("Status cache read failed, using catalog", zap.Int64("status_id", id), zap.Error(err))
	}

	state, err := c.source.StateFor(ctx, id)
	if err != nil {
		return approval.StateUnknown, err
	}
	c.store(ctx, state, id)
	return state, nil
}

// Invalidate removes both hashes
func (c *RedisStatusCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, statusByNameKey, statusByIDKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate status cache: %w", err)
	}
	return nil
}

// Ping checks that Redis answers
func (c *RedisStatusCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client if the cache created it
func (c *RedisStatusCache) Close() error {
	if !c.ownsClient {
		return nil
	}
	return c.client.Close()
}

func (c *RedisStatusCache) store(ctx context.Context, state approval.State, id int64) {
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, statusByNameKey, state.String(), id)
	pipe.HSet(ctx, statusByIDKey, strconv.FormatInt(id, 10), state.String())
	if c.ttl > 0 {
		pipe.Expire(ctx, statusByNameKey, c.ttl)
		pipe.Expire(ctx, statusByIDKey, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("Failed to populate status cache", zap.String("status", state.String()), zap.Error(err))
	}
}

var _ approval.StatusLookup = (*RedisStatusCache)(nil)
