package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smallbiznis/shopkeeper/internal/clock"
	"github.com/smallbiznis/shopkeeper/internal/tenant/domain"
	"go.uber.org/zap"
)

func TestNormalizeHost(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"testshop.localhost", "testshop.localhost", true},
		{"Shop.Example:8443", "shop.example", true},
		{"SHOP.EXAMPLE", "shop.example", true},
		{"shop.example.", "shop.example", true},
		{"  shop.example  ", "shop.example", true},
		{"[2001:db8::1]:443", "2001:db8::1", true},
		{"[2001:db8::1]", "2001:db8::1", true},
		{"", "", false},
		{"   ", "", false},
		{":8080", "", false},
		{"2001:db8::1", "", false},
		{"shop.example/path", "", false},
		{"shop example", "", false},
	}

	for _, tc := range cases {
		got, ok := NormalizeHost(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("NormalizeHost(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestResolveMalformedHostIsNotFound(t *testing.T) {
	dir := &stubDirectory{}
	cache := newTestCache(t, dir, Config{}, clock.NewFakeClock(time.Now()))
	r := New(cache, zap.NewNop())

	for _, host := range []string{"", "   ", "shop/evil", ":443"} {
		if _, err := r.Resolve(context.Background(), host); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("host %q: expected ErrNotFound, got %v", host, err)
		}
	}
	if got := dir.calls.Load(); got != 0 {
		t.Fatalf("malformed hosts must not reach the directory, calls=%d", got)
	}
}

func TestResolveNormalizesBeforeLookup(t *testing.T) {
	dir := &stubDirectory{}
	dir.set("testshop.localhost", snapshotFor(1, "testshop.localhost"))
	cache := newTestCache(t, dir, Config{TTL: time.Minute}, clock.NewFakeClock(time.Now()))
	r := New(cache, zap.NewNop())

	ctx := context.Background()
	first, err := r.Resolve(ctx, "TestShop.Localhost:3000")
	if err != nil {
		t.Fatalf("resolve with port: %v", err)
	}
	second, err := r.Resolve(ctx, "testshop.localhost")
	if err != nil {
		t.Fatalf("resolve bare: %v", err)
	}
	if first != second {
		t.Fatal("host variants must share one cache entry")
	}
	if got := dir.calls.Load(); got != 1 {
		t.Fatalf("expected 1 directory call, got %d", got)
	}
}

func TestResolveUnknownHostHasNoDefaultTenant(t *testing.T) {
	dir := &stubDirectory{}
	cache := newTestCache(t, dir, Config{}, clock.NewFakeClock(time.Now()))
	r := New(cache, zap.NewNop())

	snapshot, err := r.Resolve(context.Background(), "unknown.example")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if snapshot != nil {
		t.Fatal("unknown host must never yield a snapshot")
	}
}
