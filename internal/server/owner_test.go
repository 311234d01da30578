package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	featuredomain "github.com/smallbiznis/shopkeeper/internal/feature/domain"
	tenantdomain "github.com/smallbiznis/shopkeeper/internal/tenant/domain"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) adminRequest(t *testing.T, method, target string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.srv.engine.ServeHTTP(rec, req)
	return rec
}

func TestAdminRequiresAuthentication(t *testing.T) {
	env := newTestEnv(t)

	rec := env.adminRequest(t, http.MethodPost, "/api/admin/tenants",
		createTenantRequest{Name: "Phone Fix"}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "authentication_required", decodeError(t, rec).Type)
}

func TestAdminRejectsNonOwnerRoles(t *testing.T) {
	env := newTestEnv(t)

	for _, role := range []string{"ADMIN", "STAFF"} {
		rec := env.adminRequest(t, http.MethodPost, "/api/admin/tenants",
			createTenantRequest{Name: "Phone Fix"},
			map[string]string{"X-Auth-Role": role})
		require.Equal(t, http.StatusForbidden, rec.Code, role)
		require.Equal(t, "owner_access_required", decodeError(t, rec).Type, role)
	}
}

func TestOwnerWithTenantIDIsAViolation(t *testing.T) {
	env := newTestEnv(t)

	// An owner principal scoped to a tenant is corrupt data; the guard must
	// surface it rather than drop the tenant ID and continue.
	rec := env.adminRequest(t, http.MethodPost, "/api/admin/tenants",
		createTenantRequest{Name: "Phone Fix"},
		map[string]string{
			"X-Auth-Role":      "OWNER",
			"X-Auth-Tenant-ID": env.node.Generate().String(),
		})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "platform_access_required_violation", decodeError(t, rec).Type)
}

func TestOwnerWithUnparseableTenantIDIsAViolation(t *testing.T) {
	env := newTestEnv(t)

	// A tenant ID that fails to parse is still a tenant association; the
	// guard must reject it, not drop it and let the request through.
	rec := env.adminRequest(t, http.MethodPost, "/api/admin/tenants",
		createTenantRequest{Name: "Phone Fix", Domain: "phonefix.example"},
		map[string]string{
			"X-Auth-Role":      "OWNER",
			"X-Auth-Tenant-ID": "not-a-snowflake",
		})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "platform_access_required_violation", decodeError(t, rec).Type)

	// Nothing may have been provisioned on the rejected request.
	got, err := env.repo.LookupByDomain(context.Background(), "phonefix.example")
	require.Nil(t, got)
	require.ErrorIs(t, err, tenantdomain.ErrNotFound)
}

func TestOwnerProvisionsTenantEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	owner := map[string]string{"X-Auth-Role": "OWNER"}

	rec := env.adminRequest(t, http.MethodPost, "/api/admin/tenants", createTenantRequest{
		Name:         "Phone Fix Amsterdam",
		SupportEmail: "help@phonefix.example",
		Domain:       "PhoneFix.example:443",
	}, owner)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created tenantdomain.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, tenantdomain.StatusDraft, created.Status)
	require.Equal(t, "phone-fix-amsterdam", created.Slug)
	require.Len(t, created.Domains, 1)
	require.Equal(t, "phonefix.example", created.Domains[0].Domain)

	// Draft tenants stay invisible on the storefront side.
	storefront := env.request(http.MethodGet, "/api/storefront/features", "phonefix.example", nil)
	require.Equal(t, http.StatusNotFound, storefront.Code)

	rec = env.adminRequest(t, http.MethodPatch, "/api/admin/tenants/"+created.ID+"/status",
		updateStatusRequest{Status: "ACTIVE"}, owner)
	require.Equal(t, http.StatusOK, rec.Code)

	storefront = env.request(http.MethodGet, "/api/storefront/features", "phonefix.example", nil)
	require.Equal(t, http.StatusOK, storefront.Code)
}

func TestStatusChangeTakesEffectBeforeTTL(t *testing.T) {
	env := newTestEnv(t)
	owner := map[string]string{"X-Auth-Role": "OWNER"}
	tenantID := env.seedTenant(t, "shop.example", tenantdomain.StatusActive, featuredomain.AllEnabled())

	// Warm the resolution cache.
	rec := env.request(http.MethodGet, "/api/storefront/features", "shop.example", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	admin := env.adminRequest(t, http.MethodPatch, "/api/admin/tenants/"+tenantID.String()+"/status",
		updateStatusRequest{Status: "SUSPENDED"}, owner)
	require.Equal(t, http.StatusOK, admin.Code)

	// No clock advance: the write path invalidated the cached entry.
	rec = env.request(http.MethodGet, "/api/storefront/features", "shop.example", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "tenant_suspended", decodeError(t, rec).Type)
}

func TestAdminDuplicateDomainConflicts(t *testing.T) {
	env := newTestEnv(t)
	owner := map[string]string{"X-Auth-Role": "OWNER"}
	env.seedTenant(t, "shop.example", tenantdomain.StatusActive, featuredomain.AllEnabled())
	other := env.seedTenant(t, "other.example", tenantdomain.StatusActive, featuredomain.AllEnabled())

	rec := env.adminRequest(t, http.MethodPost, "/api/admin/tenants/"+other.String()+"/domains",
		bindDomainRequest{Domain: "shop.example"}, owner)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "conflict", decodeError(t, rec).Type)
}
