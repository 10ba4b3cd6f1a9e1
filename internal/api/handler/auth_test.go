package handler_test

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
	"github.com/stratocrm/strato/internal/api/handler"
	mw "github.com/stratocrm/strato/internal/api/middleware"
	"github.com/stratocrm/strato/internal/session"
	"github.com/stratocrm/strato/internal/store"
	"github.com/stratocrm/strato/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMockCache() *mockCache { return &mockCache{data: map[string][]byte{}} }

func (c *mockCache) Set(_ context.Context, key string, val []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = val
	return nil
}

func (c *mockCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mockCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *mockCache) Ping(_ context.Context) error { return nil }

func (c *mockCache) IncrWithExpiry(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 1, nil
}

func seedTenant(t *testing.T, s store.Store, slug string, modules ...string) *models.Tenant {
	t.Helper()
	now := time.Now().UTC()
	ten := &models.Tenant{
		ID: models.NewTenantID(), Slug: slug, Name: slug, Active: true,
		Plan: "starter", Modules: modules, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.CreateTenant(context.Background(), ten))
	return ten
}

func seedUser(t *testing.T, s store.Store, ten *models.Tenant, username, password string) *models.User {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now().UTC()
	u := &models.User{
		ID: uuid.New(), TenantID: ten.ID, Username: username,
		PasswordHash: string(h), Role: "member", CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data, _ := body["data"].(map[string]any)
	return data
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"].(map[string]any)["code"].(string)
}

func withTenant(req *http.Request, ten *models.Tenant) *http.Request {
	return req.WithContext(mw.SetTenant(req.Context(), ten))
}

func TestLogin_Success(t *testing.T) {
	s := store.NewMemoryStore()
	ten := seedTenant(t, s, "acme")
	seedUser(t, s, ten, "alice", "hunter2-hunter2")
	sessions := session.NewStore(newMockCache(), time.Hour)

	h := handler.NewLoginHandler(s, sessions)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"alice","password":"hunter2-hunter2"}`))
	req = withTenant(req, ten)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeData(t, w)
	assert.NotEmpty(t, data["token"])

	var sessionCookie, tenantCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		switch c.Name {
		case session.CookieName:
			sessionCookie = c
		case session.TenantCookieName:
			tenantCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)
	require.NotNil(t, tenantCookie)
	assert.Equal(t, "acme", tenantCookie.Value)

	// The session is retrievable and bound to the tenant
	sess, found, err := sessions.Get(context.Background(), sessionCookie.Value)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, ten.ID, sess.TenantID)
}

func TestLogin_WrongPassword(t *testing.T) {
	s := store.NewMemoryStore()
	ten := seedTenant(t, s, "acme")
	seedUser(t, s, ten, "alice", "hunter2-hunter2")
	sessions := session.NewStore(newMockCache(), time.Hour)

	h := handler.NewLoginHandler(s, sessions)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"alice","password":"wrong"}`))
	req = withTenant(req, ten)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errCode(t, w))
}

func TestLogin_UnknownUserSameErrorAsWrongPassword(t *testing.T) {
	s := store.NewMemoryStore()
	ten := seedTenant(t, s, "acme")
	sessions := session.NewStore(newMockCache(), time.Hour)

	h := handler.NewLoginHandler(s, sessions)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"ghost","password":"whatever-pass"}`))
	req = withTenant(req, ten)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errCode(t, w))
}

func TestLogin_BodyTenantUsedWhenNoHostTenant(t *testing.T) {
	s := store.NewMemoryStore()
	ten := seedTenant(t, s, "acme")
	seedUser(t, s, ten, "alice", "hunter2-hunter2")
	sessions := session.NewStore(newMockCache(), time.Hour)

	h := handler.NewLoginHandler(s, sessions)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"alice","password":"hunter2-hunter2","tenant":"acme"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestLogin_HostTenantWinsOverBodyTenant(t *testing.T) {
	s := store.NewMemoryStore()
	acme := seedTenant(t, s, "acme")
	globex := seedTenant(t, s, "globex")
	seedUser(t, s, acme, "alice", "hunter2-hunter2")
	seedUser(t, s, globex, "alice", "other-password1")
	sessions := session.NewStore(newMockCache(), time.Hour)

	h := handler.NewLoginHandler(s, sessions)
	// Body claims globex, but the request resolved to acme
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"alice","password":"hunter2-hunter2","tenant":"globex"}`))
	req = withTenant(req, acme)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	tenantData := data["tenant"].(map[string]any)
	assert.Equal(t, "acme", tenantData["slug"])
}

func TestLogin_NoTenantAnywhere(t *testing.T) {
	s := store.NewMemoryStore()
	sessions := session.NewStore(newMockCache(), time.Hour)

	h := handler.NewLoginHandler(s, sessions)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"alice","password":"hunter2-hunter2"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "TENANT_REQUIRED", errCode(t, w))
}

func TestLogin_DeactivatedTenant(t *testing.T) {
	s := store.NewMemoryStore()
	ten := seedTenant(t, s, "acme")
	seedUser(t, s, ten, "alice", "hunter2-hunter2")
	require.NoError(t, s.DeactivateTenant(context.Background(), ten.ID))
	ten.Active = false
	sessions := session.NewStore(newMockCache(), time.Hour)

	h := handler.NewLoginHandler(s, sessions)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"alice","password":"hunter2-hunter2"}`))
	req = withTenant(req, ten)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout_RevokesSession(t *testing.T) {
	s := store.NewMemoryStore()
	ten := seedTenant(t, s, "acme")
	user := seedUser(t, s, ten, "alice", "hunter2-hunter2")
	sessions := session.NewStore(newMockCache(), time.Hour)

	sess, err := sessions.Create(context.Background(), user, ten)
	require.NoError(t, err)

	h := handler.NewLogoutHandler(sessions)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sess.Token})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	_, found, err := sessions.Get(context.Background(), sess.Token)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMe_ReturnsSessionUser(t *testing.T) {
	s := store.NewMemoryStore()
	ten := seedTenant(t, s, "acme")
	user := seedUser(t, s, ten, "alice", "hunter2-hunter2")
	sessions := session.NewStore(newMockCache(), time.Hour)
	sess, err := sessions.Create(context.Background(), user, ten)
	require.NoError(t, err)

	h := handler.NewMeHandler(s)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = req.WithContext(mw.SetSession(req.Context(), sess))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	userData := data["user"].(map[string]any)
	assert.Equal(t, "alice", userData["username"])
	// Password hash never leaves the server
	assert.NotContains(t, w.Body.String(), "password_hash")
}
