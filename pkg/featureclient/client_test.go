package featureclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	featuredomain "github.com/smallbiznis/shopkeeper/internal/feature/domain"
	"go.uber.org/zap"
)

func newFlagsServer(t *testing.T, flags featuredomain.FlagSet, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/storefront/features" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(flags); err != nil {
			t.Errorf("encode flags: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFlagsServesLiveResult(t *testing.T) {
	var hits atomic.Int64
	flags := featuredomain.FlagSet{Repairs: true, MaxAdminUsers: 5}
	srv := newFlagsServer(t, flags, &hits)

	client := New(Config{BaseURL: srv.URL}, zap.NewNop())
	result := client.Flags(context.Background())

	if result.Degraded {
		t.Fatalf("expected live result, got degraded")
	}
	if !result.Flags.Repairs || result.Flags.Ecommerce {
		t.Fatalf("unexpected flags: %+v", result.Flags)
	}
	if result.Flags.MaxAdminUsers != 5 {
		t.Fatalf("MaxAdminUsers = %d, want 5", result.Flags.MaxAdminUsers)
	}
}

func TestFlagsCachesWithinTTL(t *testing.T) {
	var hits atomic.Int64
	srv := newFlagsServer(t, featuredomain.FlagSet{Repairs: true}, &hits)

	client := New(Config{BaseURL: srv.URL}, zap.NewNop())
	for i := 0; i < 5; i++ {
		if result := client.Flags(context.Background()); result.Degraded {
			t.Fatalf("call %d degraded", i)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("server hits = %d, want 1", got)
	}

	client.Invalidate()
	client.Flags(context.Background())
	if got := hits.Load(); got != 2 {
		t.Fatalf("server hits after invalidate = %d, want 2", got)
	}
}

func TestUnreachableEndpointDegradesToDefaults(t *testing.T) {
	// Port 1 refuses connections on any sane host.
	client := New(Config{BaseURL: "http://127.0.0.1:1"}, zap.NewNop())

	result := client.Flags(context.Background())
	if !result.Degraded {
		t.Fatalf("expected degraded result")
	}
	if result.Flags != featuredomain.AllEnabled() {
		t.Fatalf("degraded flags = %+v, want all-enabled defaults", result.Flags)
	}
}

func TestNon200Degrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"type":"service_unavailable"}}`, http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	client := New(Config{BaseURL: srv.URL}, zap.NewNop())
	if result := client.Flags(context.Background()); !result.Degraded {
		t.Fatalf("expected degraded result on 503")
	}
}

func TestDegradedResultIsRetriedNextCall(t *testing.T) {
	var hits atomic.Int64
	var failing atomic.Bool
	failing.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if failing.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(featuredomain.FlagSet{Tickets: true})
	}))
	t.Cleanup(srv.Close)

	client := New(Config{BaseURL: srv.URL}, zap.NewNop())
	if result := client.Flags(context.Background()); !result.Degraded {
		t.Fatalf("expected degraded result while failing")
	}

	failing.Store(false)
	result := client.Flags(context.Background())
	if result.Degraded {
		t.Fatalf("degraded result was cached instead of retried")
	}
	if !result.Flags.Tickets {
		t.Fatalf("expected live flags after recovery")
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("server hits = %d, want 2", got)
	}
}
