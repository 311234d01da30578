// Package featureclient mirrors a shop's effective feature flags for
// read-side UI gating. It fails open by design: when the flags endpoint is
// unreachable it hands back the documented all-enabled default set, marked
// degraded, so rendering never blocks. Server-side enforcement stays fail
// closed; the two must not be confused.
package featureclient

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	featuredomain "github.com/smallbiznis/shopkeeper/internal/feature/domain"
	"go.uber.org/zap"
)

const (
	defaultTTL     = 60 * time.Second
	defaultTimeout = 5 * time.Second
)

// Result is an explicit live-or-degraded outcome. Callers must branch on
// Degraded instead of silently treating defaults as live data.
type Result struct {
	Flags     featuredomain.FlagSet
	Degraded  bool
	FetchedAt time.Time
}

type Config struct {
	BaseURL string
	TTL     time.Duration
	Timeout time.Duration
}

type Client struct {
	baseURL string
	ttl     time.Duration
	http    *http.Client
	log     *zap.Logger

	mu     sync.Mutex
	cached *Result
}

func New(cfg Config, log *zap.Logger) *Client {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: cfg.BaseURL,
		ttl:     ttl,
		http:    &http.Client{Timeout: timeout},
		log:     log.Named("featureclient"),
	}
}

// Flags returns the mirrored flag set, refreshing it when the cached copy is
// older than the TTL. A live result that has not expired is served as-is; a
// degraded result is retried on every call.
func (c *Client) Flags(ctx context.Context) Result {
	c.mu.Lock()
	if c.cached != nil && !c.cached.Degraded && time.Since(c.cached.FetchedAt) < c.ttl {
		cached := *c.cached
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	result := c.fetch(ctx)

	c.mu.Lock()
	c.cached = &result
	c.mu.Unlock()
	return result
}

func (c *Client) fetch(ctx context.Context) Result {
	now := time.Now()
	degraded := Result{
		Flags:     featuredomain.AllEnabled(),
		Degraded:  true,
		FetchedAt: now,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/storefront/features", nil)
	if err != nil {
		c.log.Warn("building flags request failed", zap.Error(err))
		return degraded
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("flags fetch failed", zap.Error(err))
		return degraded
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("flags fetch returned non-200", zap.Int("status", resp.StatusCode))
		return degraded
	}

	var flags featuredomain.FlagSet
	if err := json.NewDecoder(resp.Body).Decode(&flags); err != nil {
		c.log.Warn("flags payload decode failed", zap.Error(err))
		return degraded
	}

	return Result{Flags: flags, FetchedAt: now}
}

// Invalidate drops the mirrored copy so the next read refetches.
func (c *Client) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = nil
}
