package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/stratocrm/strato/internal/api/response"
	"github.com/stratocrm/strato/internal/session"
	"github.com/stratocrm/strato/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const keyPrefixLen = 8

// SessionAuth authenticates browser requests via the session cookie (or a
// bearer token carrying the same value).
type SessionAuth struct {
	sessions *session.Store
}

// NewSessionAuth creates the session authentication middleware.
func NewSessionAuth(s *session.Store) *SessionAuth {
	return &SessionAuth{sessions: s}
}

// Authenticate validates the session and binds it to the request context.
// A session issued for one tenant is rejected on another tenant's hostname:
// the hostname-derived tenant wins and the user must re-authenticate there.
func (a *SessionAuth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			response.Error(w, http.StatusUnauthorized,
				"UNAUTHENTICATED", "Missing session", nil)
			return
		}

		sess, found, err := a.sessions.Get(r.Context(), token)
		if err != nil {
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "Failed to validate session", nil)
			return
		}
		if !found {
			response.Error(w, http.StatusUnauthorized,
				"SESSION_EXPIRED", "Session expired or revoked", nil)
			return
		}

		if ten, ok := GetTenant(r); ok && ten.Slug != sess.TenantSlug {
			response.Error(w, http.StatusUnauthorized,
				"REAUTH_REQUIRED", "Session belongs to a different tenant; sign in again", nil)
			return
		}

		next.ServeHTTP(w, r.WithContext(SetSession(r.Context(), sess)))
	})
}

func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(session.CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return extractBearerToken(r)
}

// KeyAuth authenticates programmatic requests on the api alias via bearer
// API keys.
type KeyAuth struct {
	store store.Store
}

// NewKeyAuth creates the API-key authentication middleware.
func NewKeyAuth(s store.Store) *KeyAuth {
	return &KeyAuth{store: s}
}

// scopesKey carries the authenticated API key's scopes.
const scopesKey contextKey = "api_key_scopes"

// Authenticate validates the Bearer key, looks it up by prefix, and sets the
// owning tenant and scopes in the request context. The key's tenant overrides
// any hostname-derived tenant for programmatic access.
func (a *KeyAuth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawKey := extractBearerToken(r)
		if rawKey == "" || len(rawKey) < keyPrefixLen {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Missing or invalid Authorization header", nil)
			return
		}

		keys, err := a.store.GetAPIKeyByPrefix(r.Context(), rawKey[:keyPrefixLen])
		if err != nil {
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "Failed to validate API key", nil)
			return
		}

		for _, key := range keys {
			if bcrypt.CompareHashAndPassword([]byte(key.KeyHash), []byte(rawKey)) == nil {
				ten, err := a.store.GetTenant(r.Context(), key.TenantID)
				if err != nil || !ten.Active {
					break
				}
				ctx := SetTenant(r.Context(), ten)
				ctx = setScopes(ctx, key.Scopes)

				// Update last_used_at async
				go a.store.UpdateAPIKeyLastUsed(context.Background(), key.ID)

				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		response.Error(w, http.StatusUnauthorized,
			"INVALID_TOKEN", "Invalid API key", nil)
	})
}

// RequireScope returns middleware that checks whether the authenticated
// API key has the specified scope.
func (a *KeyAuth) RequireScope(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, s := range getScopes(r) {
				if s == scope {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Error(w, http.StatusForbidden,
				"FORBIDDEN", "Insufficient permissions", nil)
		})
	}
}

func setScopes(ctx context.Context, scopes []string) context.Context {
	return context.WithValue(ctx, scopesKey, scopes)
}

func getScopes(r *http.Request) []string {
	scopes, _ := r.Context().Value(scopesKey).([]string)
	return scopes
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
