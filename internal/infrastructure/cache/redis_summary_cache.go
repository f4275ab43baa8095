package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/invoicing"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisSummaryCache implements SummaryCache using Redis, so every API
// instance sees the same invalidations.
type RedisSummaryCache struct {
	client     *redis.Client
	ownsClient bool
	keyPrefix  string
	defaultTTL time.Duration
	logger     *zap.Logger
}

// RedisSummaryCacheOption is a functional option for configuring the cache
type RedisSummaryCacheOption func(*RedisSummaryCache)

// WithKeyPrefix namespaces every key
func WithKeyPrefix(prefix string) RedisSummaryCacheOption {
	return func(c *RedisSummaryCache) {
		c.keyPrefix = prefix
	}
}

// WithDefaultTTL sets the TTL used when Set is called without one
func WithDefaultTTL(ttl time.Duration) RedisSummaryCacheOption {
	return func(c *RedisSummaryCache) {
		c.defaultTTL = ttl
	}
}

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisSummaryCacheOption {
	return func(c *RedisSummaryCache) {
		c.logger = logger
	}
}

// NewRedisSummaryCache connects to Redis and verifies the connection
func NewRedisSummaryCache(cfg RedisConfig, opts ...RedisSummaryCacheOption) (*RedisSummaryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c := NewRedisSummaryCacheWithClient(client, opts...)
	c.ownsClient = true
	return c, nil
}

// NewRedisSummaryCacheWithClient wraps an existing client. The caller keeps
// ownership of the client.
func NewRedisSummaryCacheWithClient(client *redis.Client, opts ...RedisSummaryCacheOption) *RedisSummaryCache {
	c := &RedisSummaryCache{
		client:     client,
		keyPrefix:  "ledgerdesk:",
		defaultTTL: 5 * time.Minute,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisSummaryCache) key(tenantID uuid.UUID) string {
	return c.keyPrefix + "receivables:summary:" + tenantID.String()
}

// Get returns the tenant's cached summary, or nil on a miss
func (c *RedisSummaryCache) Get(ctx context.Context, tenantID uuid.UUID) (*invoicing.ReceivablesSummary, error) {
	key := c.key(tenantID)

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get summary from cache: %w", err)
	}

	var summary invoicing.ReceivablesSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		c.logger.Warn("Dropping corrupt receivables summary", zap.String("key", key), zap.Error(err))
		_ = c.client.Del(ctx, key)
		return nil, nil
	}
	return &summary, nil
}

// Set stores a summary under its tenant
func (c *RedisSummaryCache) Set(ctx context.Context, summary *invoicing.ReceivablesSummary, ttl time.Duration) error {
	if summary == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := c.client.Set(ctx, c.key(summary.TenantID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set summary in cache: %w", err)
	}
	return nil
}

// Invalidate drops the tenant's summary
func (c *RedisSummaryCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(tenantID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate summary: %w", err)
	}
	return nil
}

// Ping checks the Redis connection, for readiness probes
func (c *RedisSummaryCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client when this cache created it
func (c *RedisSummaryCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// Ensure RedisSummaryCache implements SummaryCache
var _ invoicing.SummaryCache = (*RedisSummaryCache)(nil)
