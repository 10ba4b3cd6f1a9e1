package middleware

import (
	"context"
	"net/http"

	"github.com/stratocrm/strato/internal/session"
	"github.com/stratocrm/strato/pkg/models"
)

type contextKey string

const (
	tenantKey  contextKey = "tenant"
	sessionKey contextKey = "session"
)

// SetTenant stores the resolved tenant in the context.
func SetTenant(ctx context.Context, t *models.Tenant) context.Context {
	return context.WithValue(ctx, tenantKey, t)
}

// GetTenant returns the resolved tenant for the request, if any.
func GetTenant(r *http.Request) (*models.Tenant, bool) {
	t, ok := r.Context().Value(tenantKey).(*models.Tenant)
	return t, ok
}

// GetTenantID returns the resolved tenant's id. Handlers use this to scope
// every store call; absence means the request has no tenant context.
func GetTenantID(r *http.Request) (models.TenantID, bool) {
	t, ok := GetTenant(r)
	if !ok {
		return models.NilTenantID, false
	}
	return t.ID, true
}

// SetSession stores the authenticated session in the context.
func SetSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// GetSession returns the authenticated session, if any.
func GetSession(r *http.Request) (*session.Session, bool) {
	s, ok := r.Context().Value(sessionKey).(*session.Session)
	return s, ok
}
