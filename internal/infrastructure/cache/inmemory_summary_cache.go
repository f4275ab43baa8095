package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/domain/invoicing"
)

const defaultCleanupInterval = time.Minute

// entry is a cached summary with its expiration time
type entry struct {
	summary   *invoicing.ReceivablesSummary
	expiresAt time.Time
}

// InMemorySummaryCache implements SummaryCache with a process-local map.
// Suitable for single-instance deployments and tests; instances do not
// share invalidations.
type InMemorySummaryCache struct {
	mu         sync.RWMutex
	entries    map[uuid.UUID]entry
	defaultTTL time.Duration
	now        func() time.Time

	hits   atomic.Int64
	misses atomic.Int64

	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemorySummaryCache creates the cache and starts the expiry sweeper
func NewInMemorySummaryCache(defaultTTL time.Duration) *InMemorySummaryCache {
	c := &InMemorySummaryCache{
		entries:    make(map[uuid.UUID]entry),
		defaultTTL: defaultTTL,
		now:        time.Now,
		stopChan:   make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns the tenant's cached summary, or nil on a miss
func (c *InMemorySummaryCache) Get(ctx context.Context, tenantID uuid.UUID) (*invoicing.ReceivablesSummary, error) {
	c.mu.RLock()
	e, ok := c.entries[tenantID]
	c.mu.RUnlock()

	if !ok || c.now().After(e.expiresAt) {
		c.misses.Add(1)
		return nil, nil
	}
	c.hits.Add(1)
	copied := *e.summary
	return &copied, nil
}

// Set stores a summary under its tenant
func (c *InMemorySummaryCache) Set(ctx context.Context, summary *invoicing.ReceivablesSummary, ttl time.Duration) error {
	if summary == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	copied := *summary
	c.mu.Lock()
	c.entries[summary.TenantID] = entry{summary: &copied, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Invalidate drops the tenant's summary
func (c *InMemorySummaryCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	c.mu.Lock()
	delete(c.entries, tenantID)
	c.mu.Unlock()
	return nil
}

// Stats returns hit and miss counters
func (c *InMemorySummaryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Size returns the number of entries, expired or not
func (c *InMemorySummaryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the sweeper. Safe to call multiple times.
func (c *InMemorySummaryCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

func (c *InMemorySummaryCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemorySummaryCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for tenantID, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, tenantID)
		}
	}
}

// Ensure InMemorySummaryCache implements SummaryCache
var _ invoicing.SummaryCache = (*InMemorySummaryCache)(nil)
