// Package resolver maps inbound hosts to tenant snapshots through a TTL
// cache with single-flight directory fetches.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/shopkeeper/internal/clock"
	"github.com/smallbiznis/shopkeeper/internal/tenant/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTTL          = 60 * time.Second
	defaultFetchTimeout = 5 * time.Second
)

// ErrUnavailable marks a directory fetch failure or timeout. It is distinct
// from domain.ErrNotFound so callers can fail closed instead of treating an
// outage as a missing tenant.
var ErrUnavailable = errors.New("tenant_directory_unavailable")

// entry is immutable once published; expiry or invalidation replaces the
// whole entry so concurrent readers never observe a partial write.
type entry struct {
	snapshot  *domain.Snapshot
	fetchedAt time.Time
	expiresAt time.Time
}

type Config struct {
	TTL          time.Duration
	FetchTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.TTL <= 0 {
		c.TTL = defaultTTL
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = defaultFetchTimeout
	}
	return c
}

// Cache fronts the tenant directory with per-host TTL entries. Concurrent
// misses for the same host collapse into one upstream call.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry

	group   singleflight.Group
	dir     domain.Directory
	cfg     Config
	clock   clock.Clock
	log     *zap.Logger
	metrics *Metrics
}

func NewCache(dir domain.Directory, cfg Config, clk clock.Clock, log *zap.Logger, metrics *Metrics) *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		dir:     dir,
		cfg:     cfg.withDefaults(),
		clock:   clk,
		log:     log.Named("tenant.resolver.cache"),
		metrics: metrics,
	}
}

// GetOrFetch returns the cached snapshot for host, fetching from the
// directory on miss or expiry. Errors are domain.ErrNotFound or
// ErrUnavailable.
func (c *Cache) GetOrFetch(ctx context.Context, host string) (*domain.Snapshot, error) {
	if cached, ok := c.lookup(host); ok {
		c.metrics.hit()
		return cached, nil
	}
	c.metrics.miss()

	result, err, shared := c.group.Do(host, func() (any, error) {
		// Re-check under the flight: a concurrent fetch may have landed
		// between the lookup above and joining the group.
		if cached, ok := c.lookup(host); ok {
			return cached, nil
		}
		return c.fetch(host)
	})
	if shared {
		c.metrics.sharedFetch()
	}
	if err != nil {
		return nil, err
	}
	return result.(*domain.Snapshot), nil
}

func (c *Cache) lookup(host string) (*domain.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[host]
	if !ok || c.clock.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.snapshot, true
}

// fetch runs detached from any one caller's context: the result is shared
// across the flight, so a single caller cancelling must not poison it. The
// configured timeout bounds the call instead.
func (c *Cache) fetch(host string) (*domain.Snapshot, error) {
	fetchCtx, cancel := context.WithTimeout(context.Background(), c.cfg.FetchTimeout)
	defer cancel()

	snapshot, err := c.dir.LookupByDomain(fetchCtx, host)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		c.metrics.directoryError()
		c.log.Warn("tenant directory fetch failed",
			zap.String("host", host),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	now := c.clock.Now()
	c.publish(host, &entry{
		snapshot:  snapshot,
		fetchedAt: now,
		expiresAt: now.Add(c.cfg.TTL),
	})
	return snapshot, nil
}

func (c *Cache) publish(host string, e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[host] = e
}

// Invalidate drops every cached host owned by the tenant. Used after owner
// panel writes so changes land before TTL expiry.
func (c *Cache) Invalidate(tenantID snowflake.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for host, e := range c.entries {
		if e.snapshot.Tenant.ID == tenantID {
			delete(c.entries, host)
		}
	}
}

// InvalidateHost drops one cached host.
func (c *Cache) InvalidateHost(host string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, host)
}
