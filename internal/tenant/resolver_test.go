package tenant_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stratocrm/strato/internal/edge"
	"github.com/stratocrm/strato/internal/tenant"
	"github.com/stretchr/testify/assert"
)

func newResolver() *tenant.Resolver {
	return tenant.NewResolver("strato.io", []string{"localhost", "preview.dev"})
}

func get(target, host string, headers map[string]string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	r.Host = host
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	return r
}

func TestResolve_HeaderWins(t *testing.T) {
	rv := newResolver()
	r := get("/api/accounts", "acme.strato.io", map[string]string{
		edge.HeaderTenantID: "beta",
	})

	res := rv.Resolve(r)
	assert.Equal(t, "beta", res.Slug)
	assert.Equal(t, tenant.SourceHeader, res.Source)
}

func TestResolve_HeaderNormalized(t *testing.T) {
	rv := newResolver()
	r := get("/", "acme.strato.io", map[string]string{edge.HeaderTenantID: " ACME "})

	res := rv.Resolve(r)
	assert.Equal(t, "acme", res.Slug)
}

func TestResolve_ReservedHeaderRejected(t *testing.T) {
	rv := newResolver()
	for _, slug := range []string{"www", "app", "api"} {
		r := get("/", "strato.io", map[string]string{edge.HeaderTenantID: slug})
		res := rv.Resolve(r)
		assert.Empty(t, res.Slug, "reserved slug %q must not resolve", slug)
	}
}

func TestResolve_ForwardedHostDerivation(t *testing.T) {
	rv := newResolver()
	// Host rewritten by the edge router; original host carried in the header.
	r := get("/api/accounts", "origin.internal:8080", map[string]string{
		edge.HeaderForwardedHost: "acme.strato.io",
	})

	res := rv.Resolve(r)
	assert.Equal(t, "acme", res.Slug)
	assert.Equal(t, tenant.SourceHost, res.Source)
}

func TestResolve_DirectTenantHost(t *testing.T) {
	rv := newResolver()
	res := rv.Resolve(get("/", "acme.strato.io", nil))
	assert.Equal(t, "acme", res.Slug)
	assert.Equal(t, tenant.SourceHost, res.Source)
}

func TestResolve_AppShellClearsCachedTenant(t *testing.T) {
	rv := newResolver()

	res := rv.Resolve(get("/", "app.strato.io", nil))
	assert.Empty(t, res.Slug)
	assert.True(t, res.ClearCached)

	// Marker header from the edge, even under a rewritten host.
	r := get("/", "origin.internal", map[string]string{edge.HeaderAppRequest: "true"})
	res = rv.Resolve(r)
	assert.Empty(t, res.Slug)
	assert.True(t, res.ClearCached)
}

func TestResolve_ForgedHeaderIgnoredOnReservedHosts(t *testing.T) {
	rv := newResolver()

	// A tenant header on the app-shell alias must not resolve; the cached
	// tenant is still cleared.
	res := rv.Resolve(get("/", "app.strato.io", map[string]string{edge.HeaderTenantID: "victim"}))
	assert.Empty(t, res.Slug)
	assert.True(t, res.ClearCached)

	for _, host := range []string{"strato.io", "www.strato.io", "api.strato.io"} {
		res := rv.Resolve(get("/", host, map[string]string{edge.HeaderTenantID: "victim"}))
		assert.Empty(t, res.Slug, "host %s must not resolve a header tenant", host)
		assert.Equal(t, tenant.SourceNone, res.Source)
	}
}

func TestResolve_ReservedHostsNeverResolve(t *testing.T) {
	rv := newResolver()
	for _, host := range []string{"strato.io", "www.strato.io", "api.strato.io", "app.strato.io"} {
		res := rv.Resolve(get("/?tenant=acme", host, nil))
		assert.Empty(t, res.Slug, "host %s must not resolve a tenant", host)
	}
}

func TestResolve_DevHostQueryParam(t *testing.T) {
	rv := newResolver()

	res := rv.Resolve(get("/?tenant=acme", "localhost:3000", nil))
	assert.Equal(t, "acme", res.Slug)
	assert.Equal(t, tenant.SourceQuery, res.Source)

	res = rv.Resolve(get("/?tenant=acme", "preview.dev", nil))
	assert.Equal(t, "acme", res.Slug)
}

func TestResolve_QueryParamIgnoredOnProductionHosts(t *testing.T) {
	rv := newResolver()
	res := rv.Resolve(get("/?tenant=beta", "evil.example.com", nil))
	assert.Empty(t, res.Slug)
	assert.Equal(t, tenant.SourceNone, res.Source)
}

func TestResolve_HeaderBeatsQueryParam(t *testing.T) {
	rv := newResolver()
	r := get("/?tenant=beta", "localhost", map[string]string{edge.HeaderTenantID: "acme"})
	res := rv.Resolve(r)
	assert.Equal(t, "acme", res.Slug)
	assert.Equal(t, tenant.SourceHeader, res.Source)
}

func TestResolve_NoTenant(t *testing.T) {
	rv := newResolver()
	res := rv.Resolve(get("/", "example.com", nil))
	assert.Empty(t, res.Slug)
	assert.False(t, res.ClearCached)
	assert.Equal(t, tenant.SourceNone, res.Source)
}
