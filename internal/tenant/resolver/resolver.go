package resolver

import (
	"context"
	"net"
	"strings"

	"github.com/smallbiznis/shopkeeper/internal/tenant/domain"
	"go.uber.org/zap"
)

// Resolver normalizes an inbound Host header and maps it to a tenant
// snapshot through the cache.
type Resolver struct {
	cache *Cache
	log   *zap.Logger
}

func New(cache *Cache, log *zap.Logger) *Resolver {
	return &Resolver{
		cache: cache,
		log:   log.Named("tenant.resolver"),
	}
}

// Resolve maps a raw Host header to a tenant snapshot. Malformed or unknown
// hosts are domain.ErrNotFound; there is no default-tenant fallback, since
// serving a default on a miss would leak one tenant's data onto another's
// domain. A directory outage is ErrUnavailable.
func (r *Resolver) Resolve(ctx context.Context, hostHeader string) (*domain.Snapshot, error) {
	host, ok := NormalizeHost(hostHeader)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.cache.GetOrFetch(ctx, host)
}

// NormalizeHost lowercases the host, strips an optional :port (including the
// bracketed IPv6 form), and rejects empty or malformed input. Malformed
// hosts are an expected case for misbehaving clients, never a panic.
func NormalizeHost(raw string) (string, bool) {
	host := strings.TrimSpace(raw)
	if host == "" {
		return "", false
	}

	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	} else if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		host = host[1 : len(host)-1]
	} else if strings.Contains(host, ":") {
		// Unbracketed colon that is not host:port, e.g. a stray IPv6
		// literal or garbage. Host headers like this never match a
		// registered domain.
		return "", false
	}

	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" || strings.ContainsAny(host, "/\\ \t") {
		return "", false
	}
	return host, true
}
