package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stratocrm/strato/internal/api"
	mw "github.com/stratocrm/strato/internal/api/middleware"
	"github.com/stratocrm/strato/internal/session"
	"github.com/stratocrm/strato/internal/store"
	"github.com/stratocrm/strato/internal/tenant"
	"github.com/stratocrm/strato/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (c *fakeCache) Set(_ context.Context, key string, val []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = val
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Ping(_ context.Context) error { return nil }

func (c *fakeCache) IncrWithExpiry(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 1, nil
}

type env struct {
	store    *store.MemoryStore
	sessions *session.Store
	router   http.Handler
}

func newEnv(t *testing.T) *env {
	t.Helper()
	s := store.NewMemoryStore()
	c := newFakeCache()
	sessions := session.NewStore(c, time.Hour)
	resolver := tenant.NewResolver("strato.io", nil)

	deps := api.Dependencies{
		Store:    s,
		Sessions: sessions,

		Tenancy:     mw.NewTenancy(resolver, s),
		SessionAuth: mw.NewSessionAuth(sessions),
		KeyAuth:     mw.NewKeyAuth(s),
		RateLimit:   mw.NewRateLimit(c, 1000),
	}
	return &env{store: s, sessions: sessions, router: api.NewRouter(deps)}
}

func (e *env) seedTenant(t *testing.T, slug string, modules ...string) *models.Tenant {
	t.Helper()
	now := time.Now().UTC()
	ten := &models.Tenant{
		ID: models.NewTenantID(), Slug: slug, Name: slug, Active: true,
		Plan: "starter", Modules: modules, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, e.store.CreateTenant(context.Background(), ten))
	return ten
}

func (e *env) seedUser(t *testing.T, ten *models.Tenant, username, password string) *models.User {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now().UTC()
	u := &models.User{
		ID: uuid.New(), TenantID: ten.ID, Username: username,
		PasswordHash: string(h), Role: "member", CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

func (e *env) login(t *testing.T, host, username, password string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "http://"+host+"/api/auth/login",
		strings.NewReader(`{"username":"`+username+`","password":"`+password+`"}`))
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c.Value
		}
	}
	t.Fatal("no session cookie in login response")
	return ""
}

func TestRouter_HealthIsPublic(t *testing.T) {
	e := newEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	// No handler wired in this test: 501, but reachable without auth
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestRouter_LoginThenCRUDOnTenantHost(t *testing.T) {
	e := newEnv(t)
	ten := e.seedTenant(t, "acme", "sales")
	e.seedUser(t, ten, "alice", "hunter2-hunter2")

	token := e.login(t, "acme.strato.io", "alice", "hunter2-hunter2")

	// Create an account on the tenant's hostname
	req := httptest.NewRequest(http.MethodPost, "http://acme.strato.io/api/v1/accounts",
		strings.NewReader(`{"name":"Initech"}`))
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// List it back
	req = httptest.NewRequest(http.MethodGet, "http://acme.strato.io/api/v1/accounts", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	w = httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Initech", body.Data[0]["name"])
}

func TestRouter_SessionRejectedOnOtherTenantHost(t *testing.T) {
	e := newEnv(t)
	acme := e.seedTenant(t, "acme")
	e.seedTenant(t, "globex")
	e.seedUser(t, acme, "alice", "hunter2-hunter2")

	token := e.login(t, "acme.strato.io", "alice", "hunter2-hunter2")

	req := httptest.NewRequest(http.MethodGet, "http://globex.strato.io/api/v1/accounts", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "REAUTH_REQUIRED")
}

func TestRouter_UnknownTenantHostIs404(t *testing.T) {
	e := newEnv(t)

	req := httptest.NewRequest(http.MethodGet, "http://ghost.strato.io/api/v1/accounts", nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "TENANT_NOT_FOUND")
}

func TestRouter_CRUDWithoutSessionIs401(t *testing.T) {
	e := newEnv(t)
	e.seedTenant(t, "acme")

	req := httptest.NewRequest(http.MethodGet, "http://acme.strato.io/api/v1/accounts", nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_PlatformRoutesNeedPlatformScope(t *testing.T) {
	e := newEnv(t)
	ten := e.seedTenant(t, "ops")

	// Key with admin scope only
	rawKey := "abcd1234adminonlyadmin"
	h, err := bcrypt.GenerateFromPassword([]byte(rawKey), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, e.store.CreateAPIKey(context.Background(), &models.APIKey{
		ID: uuid.New(), TenantID: ten.ID, Name: "ci",
		KeyHash: string(h), KeyPrefix: rawKey[:8], Scopes: []string{"admin"},
		CreatedAt: now, UpdatedAt: now,
	}))

	req := httptest.NewRequest(http.MethodPost, "http://api.strato.io/api/v1/platform/tenants",
		strings.NewReader(`{"slug":"acme","name":"Acme","admin_username":"a","admin_password":"p"}`))
	req.Header.Set("Authorization", "Bearer "+rawKey)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admin key routes do work
	req = httptest.NewRequest(http.MethodGet, "http://api.strato.io/api/v1/admin/keys", nil)
	req.Header.Set("Authorization", "Bearer "+rawKey)
	w = httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRouter_PlatformProvisioning(t *testing.T) {
	e := newEnv(t)
	ten := e.seedTenant(t, "ops")

	rawKey := "efgh5678platformplatform"
	h, err := bcrypt.GenerateFromPassword([]byte(rawKey), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, e.store.CreateAPIKey(context.Background(), &models.APIKey{
		ID: uuid.New(), TenantID: ten.ID, Name: "provisioner",
		KeyHash: string(h), KeyPrefix: rawKey[:8], Scopes: []string{"platform"},
		CreatedAt: now, UpdatedAt: now,
	}))

	req := httptest.NewRequest(http.MethodPost, "http://api.strato.io/api/v1/platform/tenants",
		strings.NewReader(`{"slug":"acme","name":"Acme Inc","admin_username":"alice","admin_password":"hunter2-hunter2"}`))
	req.Header.Set("Authorization", "Bearer "+rawKey)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created, err := e.store.GetTenantBySlug(context.Background(), "acme")
	require.NoError(t, err)
	assert.True(t, created.Active)
}
