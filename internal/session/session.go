// Package session provides redis-backed login sessions. A session binds a
// user to the tenant it authenticated against; it is never valid for any
// other tenant.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stratocrm/strato/internal/cache"
	"github.com/stratocrm/strato/pkg/models"
)

// CookieName is the session cookie set on login.
const CookieName = "strato_session"

// TenantCookieName caches the last-used tenant slug client-side. It is a UI
// convenience only and is never trusted as an authorization input.
const TenantCookieName = "strato_tenant"

// Session is the server-side session record.
type Session struct {
	Token      string          `json:"token"`
	UserID     uuid.UUID       `json:"user_id"`
	TenantID   models.TenantID `json:"tenant_id"`
	TenantSlug string          `json:"tenant_slug"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Store creates, fetches, and revokes sessions in the cache.
type Store struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewStore creates a session Store with the given TTL.
func NewStore(c cache.Cache, ttl time.Duration) *Store {
	return &Store{cache: c, ttl: ttl}
}

// Create mints a new session for a user in a tenant.
func (s *Store) Create(ctx context.Context, user *models.User, tenant *models.Tenant) (*Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	sess := &Session{
		Token:      token,
		UserID:     user.ID,
		TenantID:   tenant.ID,
		TenantSlug: tenant.Slug,
		CreatedAt:  time.Now().UTC(),
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	if err := s.cache.Set(ctx, cache.SessionKey(token), raw, s.ttl); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

// Get fetches a session by token. A missing or expired session returns
// (nil, false, nil).
func (s *Store) Get(ctx context.Context, token string) (*Session, bool, error) {
	raw, found, err := s.cache.Get(ctx, cache.SessionKey(token))
	if err != nil {
		return nil, false, fmt.Errorf("fetch session: %w", err)
	}
	if !found {
		return nil, false, nil
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, false, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, true, nil
}

// Revoke deletes a session. Revoking an unknown token is not an error.
func (s *Store) Revoke(ctx context.Context, token string) error {
	return s.cache.Delete(ctx, cache.SessionKey(token))
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
