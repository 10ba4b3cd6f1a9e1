package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/stratocrm/strato/internal/api/response"
	"github.com/stratocrm/strato/internal/session"
	"github.com/stratocrm/strato/internal/store"
	"github.com/stratocrm/strato/internal/tenant"
)

// Tenancy resolves the effective tenant for each request and loads it into
// the request context. Requests with no resolvable tenant pass through
// without one; handlers that need a tenant use RequireTenant.
type Tenancy struct {
	resolver *tenant.Resolver
	store    store.Store
}

// NewTenancy creates the tenancy middleware.
func NewTenancy(rv *tenant.Resolver, s store.Store) *Tenancy {
	return &Tenancy{resolver: rv, store: s}
}

// Resolve resolves and loads the tenant. An unknown or deactivated tenant
// slug yields 404: the caller learns nothing about which tenants exist.
func (t *Tenancy) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := t.resolver.Resolve(r)

		if res.ClearCached {
			// App-shell alias: drop the cached tenant so the client
			// re-prompts instead of silently reusing a stale tenant.
			http.SetCookie(w, &http.Cookie{
				Name:    session.TenantCookieName,
				Value:   "",
				Path:    "/",
				MaxAge:  -1,
				Expires: time.Unix(0, 0),
			})
		}

		if res.Slug == "" {
			next.ServeHTTP(w, r)
			return
		}

		ten, err := t.store.GetTenantBySlug(r.Context(), res.Slug)
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusNotFound,
				"TENANT_NOT_FOUND", "Tenant not found", nil)
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "Failed to resolve tenant", nil)
			return
		}
		if !ten.Active {
			response.Error(w, http.StatusNotFound,
				"TENANT_NOT_FOUND", "Tenant not found", nil)
			return
		}

		// Refresh the client-side tenant hint.
		http.SetCookie(w, &http.Cookie{
			Name:  session.TenantCookieName,
			Value: ten.Slug,
			Path:  "/",
		})

		logTenant(r.Context(), ten.Slug)
		next.ServeHTTP(w, r.WithContext(SetTenant(r.Context(), ten)))
	})
}

// RequireTenant rejects requests that reached a tenant-scoped route without
// a resolved tenant.
func RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetTenant(r); !ok {
			response.Error(w, http.StatusBadRequest,
				"TENANT_REQUIRED", "No tenant could be resolved for this request", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
