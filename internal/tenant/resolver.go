// Package tenant determines the effective tenant for a request. Resolution is
// a pure precedence check over the headers stamped by the edge router, the
// (forwarded) hostname, and, on development hosts only, a query parameter.
// There is no ambient tenant: callers receive a slug and must thread it to
// every data access explicitly.
package tenant

import (
	"net"
	"net/http"
	"strings"

	"github.com/stratocrm/strato/internal/config"
	"github.com/stratocrm/strato/internal/edge"
	"github.com/stratocrm/strato/pkg/models"
)

// Source records which precedence rung produced the slug.
type Source int

const (
	SourceNone Source = iota
	// SourceHeader is the X-Tenant-ID header stamped by the edge router.
	SourceHeader
	// SourceHost is a slug re-derived from the forwarded hostname.
	SourceHost
	// SourceQuery is the ?tenant= parameter, honored on dev hosts only.
	SourceQuery
)

// Resolution is the outcome of resolving a single request.
type Resolution struct {
	Slug   string
	Source Source
	// ClearCached is set when the request targets the app-shell alias: any
	// tenant value cached client-side must be dropped so the user is
	// re-prompted rather than silently continuing against a stale tenant.
	ClearCached bool
}

// Resolver resolves the effective tenant slug for requests. It holds only
// immutable configuration and is safe for concurrent use.
type Resolver struct {
	baseDomain string
	devHosts   map[string]bool
}

// NewResolver creates a Resolver for the given base domain. devHosts are
// hostnames (local or preview proxies) on which the ?tenant= query parameter
// is trusted.
func NewResolver(baseDomain string, devHosts []string) *Resolver {
	dev := make(map[string]bool, len(devHosts))
	for _, h := range devHosts {
		dev[strings.ToLower(h)] = true
	}
	return &Resolver{
		baseDomain: strings.ToLower(baseDomain),
		devHosts:   dev,
	}
}

// Resolve determines the effective tenant slug for a request. The forwarded
// hostname is classified first: reserved hostnames never resolve to a tenant,
// regardless of what headers arrived with the request. On non-reserved hosts
// precedence is the edge-stamped header, then the hostname, then (dev hosts
// only) the tenant query parameter.
func (rv *Resolver) Resolve(r *http.Request) Resolution {
	host := forwardedHost(r)
	cls := edge.Classify(host, config.EdgeConfig{BaseDomain: rv.baseDomain})

	appShell := cls.Kind == edge.KindAppShell || r.Header.Get(edge.HeaderAppRequest) != ""
	if appShell {
		return Resolution{ClearCached: true}
	}

	// The edge only stamps X-Tenant-ID on tenant hostnames, so a tenant
	// header arriving under a reserved alias is forged or stale. Ignore it.
	switch cls.Kind {
	case edge.KindMarketing, edge.KindAPI, edge.KindRedirect:
		return Resolution{}
	}

	if slug := normalizeSlug(r.Header.Get(edge.HeaderTenantID)); slug != "" {
		return Resolution{Slug: slug, Source: SourceHeader}
	}

	if cls.Kind == edge.KindTenant {
		return Resolution{Slug: cls.TenantSlug, Source: SourceHost}
	}

	if rv.isDevHost(host) {
		if slug := normalizeSlug(r.URL.Query().Get("tenant")); slug != "" {
			return Resolution{Slug: slug, Source: SourceQuery}
		}
	}

	return Resolution{}
}

func (rv *Resolver) isDevHost(host string) bool {
	return rv.devHosts[strings.ToLower(host)]
}

// forwardedHost returns the client-facing hostname: the edge router's
// X-Forwarded-Host when present, otherwise the Host header, port stripped.
func forwardedHost(r *http.Request) string {
	if fh := r.Header.Get(edge.HeaderForwardedHost); fh != "" {
		return stripPort(fh)
	}
	return stripPort(r.Host)
}

// normalizeSlug lowercases a candidate slug and rejects reserved labels, so
// a forged or stale "www"/"app"/"api" value can never become a tenant.
func normalizeSlug(slug string) string {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" || models.ReservedSlugs[slug] {
		return ""
	}
	return slug
}

func stripPort(hostport string) string {
	if host, _, err := net.SplitHostPort(hostport); err == nil {
		return host
	}
	return hostport
}
