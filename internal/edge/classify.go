// Package edge implements the request-classification and forwarding layer
// that sits between clients and the application origin. Every inbound request
// is classified by hostname, stamped with routing headers, and proxied to a
// single backend origin.
package edge

import (
	"net"
	"strings"

	"github.com/stratocrm/strato/internal/config"
	"github.com/stratocrm/strato/pkg/models"
)

// Kind is the hostname classification of an inbound request.
type Kind int

const (
	// KindOther is an unrecognized hostname; forwarded unchanged, no tenant.
	KindOther Kind = iota
	// KindRedirect is a raw-IP hostname; redirected to the marketing domain.
	KindRedirect
	// KindMarketing is the bare base domain or its www variant.
	KindMarketing
	// KindAppShell is the fixed app.<base> alias.
	KindAppShell
	// KindAPI is the fixed api.<base> alias.
	KindAPI
	// KindTenant is a tenant subdomain; the leftmost label is the slug.
	KindTenant
)

func (k Kind) String() string {
	switch k {
	case KindRedirect:
		return "redirect"
	case KindMarketing:
		return "marketing"
	case KindAppShell:
		return "app-shell"
	case KindAPI:
		return "api"
	case KindTenant:
		return "tenant"
	default:
		return "other"
	}
}

// Headers injected toward the origin. The origin must rely on these rather
// than the Host header, which is rewritten to the origin's hostname.
const (
	HeaderForwardedHost   = "X-Forwarded-Host"
	HeaderOriginalURL     = "X-Original-URL"
	HeaderTenantID        = "X-Tenant-ID"
	HeaderForceMarketing  = "X-Force-Marketing"
	HeaderAppRequest      = "X-App-Request"
	HeaderShowApp         = "X-Show-App"
	HeaderShowTenantField = "X-Show-Tenant-Field"
	HeaderAPIRequest      = "X-API-Request"
)

// Classification is the per-request routing decision. It is ephemeral: derived
// from the hostname, used to stamp headers, then discarded.
type Classification struct {
	Kind       Kind
	TenantSlug string
}

// Classify maps a client-facing hostname to a Classification. First match
// wins: raw IP, marketing domain, app alias, api alias, tenant subdomain,
// then other. The port, if any, is ignored.
func Classify(hostport string, cfg config.EdgeConfig) Classification {
	host := strings.ToLower(stripPort(hostport))
	base := strings.ToLower(cfg.BaseDomain)

	if net.ParseIP(strings.Trim(host, "[]")) != nil {
		return Classification{Kind: KindRedirect}
	}

	switch host {
	case base, "www." + base:
		return Classification{Kind: KindMarketing}
	case "app." + base:
		return Classification{Kind: KindAppShell}
	case "api." + base:
		return Classification{Kind: KindAPI}
	}

	if sub, ok := strings.CutSuffix(host, "."+base); ok && sub != "" {
		// Leftmost label is the candidate tenant slug.
		slug := sub
		if i := strings.Index(sub, "."); i >= 0 {
			slug = sub[:i]
		}
		if !models.ReservedSlugs[slug] {
			return Classification{Kind: KindTenant, TenantSlug: slug}
		}
	}

	return Classification{Kind: KindOther}
}

// stripPort removes a trailing :port from a host, tolerating IPv6 literals.
func stripPort(hostport string) string {
	if host, _, err := net.SplitHostPort(hostport); err == nil {
		return host
	}
	return hostport
}
