package resolver

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/shopkeeper/internal/clock"
	featuredomain "github.com/smallbiznis/shopkeeper/internal/feature/domain"
	"github.com/smallbiznis/shopkeeper/internal/tenant/domain"
	"go.uber.org/zap"
)

type stubDirectory struct {
	mu        sync.Mutex
	calls     atomic.Int64
	snapshots map[string]*domain.Snapshot
	err       error
	delay     time.Duration
}

func (d *stubDirectory) LookupByDomain(ctx context.Context, host string) (*domain.Snapshot, error) {
	d.calls.Add(1)
	if d.delay > 0 {
		select {
		case <-time.After(d.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	snapshot, ok := d.snapshots[host]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return snapshot, nil
}

func (d *stubDirectory) LookupFlags(ctx context.Context, tenantID snowflake.ID) (featuredomain.FlagSet, error) {
	return featuredomain.FlagSet{}, nil
}

func (d *stubDirectory) set(host string, snapshot *domain.Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.snapshots == nil {
		d.snapshots = make(map[string]*domain.Snapshot)
	}
	d.snapshots[host] = snapshot
}

func snapshotFor(id int64, host string) *domain.Snapshot {
	return &domain.Snapshot{
		Tenant: domain.Tenant{ID: snowflake.ID(id), Slug: host, Status: domain.StatusActive},
		Domain: domain.TenantDomain{TenantID: snowflake.ID(id), Domain: host, IsPrimary: true},
		Flags:  featuredomain.FlagSet{Ecommerce: true},
	}
}

func newTestCache(t *testing.T, dir domain.Directory, cfg Config, clk clock.Clock) *Cache {
	t.Helper()
	return NewCache(dir, cfg, clk, zap.NewNop(), nil)
}

func TestGetOrFetchCachesWithinTTL(t *testing.T) {
	dir := &stubDirectory{}
	dir.set("shop.example", snapshotFor(1, "shop.example"))
	clk := clock.NewFakeClock(time.Now())
	cache := newTestCache(t, dir, Config{TTL: time.Minute}, clk)

	ctx := context.Background()
	first, err := cache.GetOrFetch(ctx, "shop.example")
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := cache.GetOrFetch(ctx, "shop.example")
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if first != second {
		t.Fatal("expected cached snapshot instance within TTL")
	}
	if got := dir.calls.Load(); got != 1 {
		t.Fatalf("expected 1 directory call, got %d", got)
	}
}

func TestGetOrFetchRefetchesAfterTTL(t *testing.T) {
	dir := &stubDirectory{}
	dir.set("shop.example", snapshotFor(1, "shop.example"))
	clk := clock.NewFakeClock(time.Now())
	cache := newTestCache(t, dir, Config{TTL: time.Minute}, clk)

	ctx := context.Background()
	if _, err := cache.GetOrFetch(ctx, "shop.example"); err != nil {
		t.Fatalf("warm up: %v", err)
	}

	// Directory state changes; the stale entry must serve until TTL, then
	// the update must be observed without any explicit invalidation.
	updated := snapshotFor(1, "shop.example")
	updated.Tenant.Status = domain.StatusSuspended
	dir.set("shop.example", updated)

	cached, err := cache.GetOrFetch(ctx, "shop.example")
	if err != nil {
		t.Fatalf("cached read: %v", err)
	}
	if cached.Tenant.Status != domain.StatusActive {
		t.Fatal("expected stale snapshot before TTL expiry")
	}

	clk.Advance(61 * time.Second)
	fresh, err := cache.GetOrFetch(ctx, "shop.example")
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if fresh.Tenant.Status != domain.StatusSuspended {
		t.Fatal("expected fresh snapshot after TTL expiry")
	}
	if got := dir.calls.Load(); got != 2 {
		t.Fatalf("expected 2 directory calls, got %d", got)
	}
}

func TestSingleFlightColdHost(t *testing.T) {
	dir := &stubDirectory{delay: 50 * time.Millisecond}
	dir.set("shop.example", snapshotFor(1, "shop.example"))
	cache := newTestCache(t, dir, Config{}, clock.NewFakeClock(time.Now()))

	const callers = 32
	var wg sync.WaitGroup
	results := make([]*domain.Snapshot, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cache.GetOrFetch(context.Background(), "shop.example")
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if results[i] == nil || results[i].Tenant.ID != 1 {
			t.Fatalf("caller %d got wrong snapshot", i)
		}
	}
	if got := dir.calls.Load(); got != 1 {
		t.Fatalf("expected exactly 1 directory call for %d callers, got %d", callers, got)
	}
}

func TestNotFoundIsNotUnavailable(t *testing.T) {
	dir := &stubDirectory{}
	cache := newTestCache(t, dir, Config{}, clock.NewFakeClock(time.Now()))

	_, err := cache.GetOrFetch(context.Background(), "unknown.example")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if errors.Is(err, ErrUnavailable) {
		t.Fatal("not-found must not look like an outage")
	}
}

func TestDirectoryFailureSurfacesAsUnavailable(t *testing.T) {
	dir := &stubDirectory{err: errors.New("connection refused")}
	cache := newTestCache(t, dir, Config{}, clock.NewFakeClock(time.Now()))

	_, err := cache.GetOrFetch(context.Background(), "shop.example")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestDirectoryTimeoutSurfacesAsUnavailable(t *testing.T) {
	dir := &stubDirectory{delay: 200 * time.Millisecond}
	dir.set("shop.example", snapshotFor(1, "shop.example"))
	cache := newTestCache(t, dir, Config{FetchTimeout: 20 * time.Millisecond}, clock.NewFakeClock(time.Now()))

	_, err := cache.GetOrFetch(context.Background(), "shop.example")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable on timeout, got %v", err)
	}
}

func TestFailedFetchIsNotCached(t *testing.T) {
	dir := &stubDirectory{err: errors.New("boom")}
	cache := newTestCache(t, dir, Config{}, clock.NewFakeClock(time.Now()))

	if _, err := cache.GetOrFetch(context.Background(), "shop.example"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	dir.mu.Lock()
	dir.err = nil
	dir.mu.Unlock()
	dir.set("shop.example", snapshotFor(1, "shop.example"))

	snapshot, err := cache.GetOrFetch(context.Background(), "shop.example")
	if err != nil {
		t.Fatalf("recovery fetch: %v", err)
	}
	if snapshot.Tenant.ID != 1 {
		t.Fatal("expected fresh snapshot after recovery")
	}
}

func TestInvalidateByTenant(t *testing.T) {
	dir := &stubDirectory{}
	dir.set("shop.example", snapshotFor(1, "shop.example"))
	dir.set("other.example", snapshotFor(2, "other.example"))
	cache := newTestCache(t, dir, Config{TTL: time.Hour}, clock.NewFakeClock(time.Now()))

	ctx := context.Background()
	if _, err := cache.GetOrFetch(ctx, "shop.example"); err != nil {
		t.Fatalf("warm shop: %v", err)
	}
	if _, err := cache.GetOrFetch(ctx, "other.example"); err != nil {
		t.Fatalf("warm other: %v", err)
	}

	cache.Invalidate(snowflake.ID(1))

	if _, err := cache.GetOrFetch(ctx, "shop.example"); err != nil {
		t.Fatalf("refetch shop: %v", err)
	}
	if got := dir.calls.Load(); got != 3 {
		t.Fatalf("expected invalidated host to refetch, calls=%d", got)
	}
	if _, err := cache.GetOrFetch(ctx, "other.example"); err != nil {
		t.Fatalf("other host: %v", err)
	}
	if got := dir.calls.Load(); got != 3 {
		t.Fatalf("unrelated tenant must stay cached, calls=%d", got)
	}
}
