package cache

import (
	"fmt"
	"io"

	"github.com/ledgerdesk/backend/internal/domain/invoicing"
	"github.com/ledgerdesk/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SummaryCacheFactory creates the receivables summary cache from configuration
type SummaryCacheFactory struct {
	redisConfig           config.RedisConfig
	cacheConfig           config.CacheConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// SummaryCacheFactoryOption is a functional option for configuring the factory
type SummaryCacheFactoryOption func(*SummaryCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SummaryCacheFactoryOption {
	return func(f *SummaryCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) SummaryCacheFactoryOption {
	return func(f *SummaryCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSummaryCacheFactory creates a new factory
func NewSummaryCacheFactory(redisCfg config.RedisConfig, cacheCfg config.CacheConfig, opts ...SummaryCacheFactoryOption) *SummaryCacheFactory {
	f := &SummaryCacheFactory{
		redisConfig:           redisCfg,
		cacheConfig:           cacheCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SummaryCacheCloser is a summary cache that holds resources
type SummaryCacheCloser interface {
	invoicing.SummaryCache
	io.Closer
}

// CreateCache returns a Redis cache when Redis is enabled and reachable,
// otherwise the in-memory cache if fallback is allowed.
func (f *SummaryCacheFactory) CreateCache() (SummaryCacheCloser, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory receivables cache")
		return NewInMemorySummaryCache(f.cacheConfig.SummaryTTL), nil
	}

	redisCache, err := NewRedisSummaryCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	},
		WithKeyPrefix(f.cacheConfig.KeyPrefix),
		WithDefaultTTL(f.cacheConfig.SummaryTTL),
		WithCacheLogger(f.logger),
	)
	if err == nil {
		f.logger.Info("Using Redis receivables cache", zap.String("addr", f.redisConfig.Addr()))
		return redisCache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for receivables cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory receivables cache. "+
		"Invalidations will not reach other instances.",
		zap.Error(err),
	)
	return NewInMemorySummaryCache(f.cacheConfig.SummaryTTL), nil
}
