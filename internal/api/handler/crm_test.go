package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stratocrm/strato/internal/api/handler"
	"github.com/stratocrm/strato/internal/store"
	"github.com/stratocrm/strato/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAccount(t *testing.T) {
	s := store.NewMemoryStore()
	ten := seedTenant(t, s, "acme", "sales")
	h := handler.NewCreateAccountHandler(s)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts",
		strings.NewReader(`{"name":"Initech","industry":"software"}`))
	req = withTenant(req, ten)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	list, err := s.ListAccounts(context.Background(), ten.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Initech", list[0].Name)
	assert.Equal(t, ten.ID, list[0].TenantID)
}

func TestCreateAccount_NameRequired(t *testing.T) {
	s := store.NewMemoryStore()
	ten := seedTenant(t, s, "acme")
	h := handler.NewCreateAccountHandler(s)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts",
		strings.NewReader(`{"industry":"software"}`))
	req = withTenant(req, ten)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAccount_CrossTenantIs404(t *testing.T) {
	s := store.NewMemoryStore()
	acme := seedTenant(t, s, "acme")
	globex := seedTenant(t, s, "globex")

	now := time.Now().UTC()
	a := &models.Account{
		ID: uuid.New(), TenantID: acme.ID, Name: "Initech",
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.CreateAccount(context.Background(), a))

	r := chi.NewRouter()
	r.Get("/api/v1/accounts/{accountID}", handler.NewGetAccountHandler(s))

	// Owner sees it
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/"+a.ID.String(), nil)
	req = withTenant(req, acme)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Another tenant gets 404, not 403
	req = httptest.NewRequest(http.MethodGet, "/api/v1/accounts/"+a.ID.String(), nil)
	req = withTenant(req, globex)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errCode(t, w))
}

func TestUpdateAccount_PartialPatch(t *testing.T) {
	s := store.NewMemoryStore()
	ten := seedTenant(t, s, "acme")

	now := time.Now().UTC()
	a := &models.Account{
		ID: uuid.New(), TenantID: ten.ID, Name: "Initech", Industry: "software",
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.CreateAccount(context.Background(), a))

	r := chi.NewRouter()
	r.Put("/api/v1/accounts/{accountID}", handler.NewUpdateAccountHandler(s))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/accounts/"+a.ID.String(),
		strings.NewReader(`{"industry":"fintech"}`))
	req = withTenant(req, ten)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got, err := s.GetAccount(context.Background(), a.ID, ten.ID)
	require.NoError(t, err)
	assert.Equal(t, "Initech", got.Name)
	assert.Equal(t, "fintech", got.Industry)
}

func TestCreateAccountTask_AccountMustBeInTenant(t *testing.T) {
	s := store.NewMemoryStore()
	acme := seedTenant(t, s, "acme")
	globex := seedTenant(t, s, "globex")

	now := time.Now().UTC()
	a := &models.Account{
		ID: uuid.New(), TenantID: acme.ID, Name: "Initech",
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.CreateAccount(context.Background(), a))

	h := handler.NewCreateAccountTaskHandler(s)

	// Globex cannot attach a task to acme's account
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks",
		strings.NewReader(`{"account_id":"`+a.ID.String()+`","title":"Call back"}`))
	req = withTenant(req, globex)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/tasks",
		strings.NewReader(`{"account_id":"`+a.ID.String()+`","title":"Call back"}`))
	req = withTenant(req, acme)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCreateDeal_DefaultsStage(t *testing.T) {
	s := store.NewMemoryStore()
	ten := seedTenant(t, s, "acme")
	h := handler.NewCreateDealHandler(s)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/deals",
		strings.NewReader(`{"name":"Renewal","amount_cents":990000}`))
	req = withTenant(req, ten)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	deals, err := s.ListDeals(context.Background(), ten.ID)
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, "prospecting", deals[0].Stage)
	assert.Equal(t, int64(990000), deals[0].AmountCents)
}

func TestEmailTemplates_RequireMarketingModule(t *testing.T) {
	s := store.NewMemoryStore()
	ten := seedTenant(t, s, "acme") // no marketing module
	h := handler.NewCreateEmailTemplateHandler(s)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/templates",
		strings.NewReader(`{"name":"Welcome"}`))
	req = withTenant(req, ten)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "MODULE_NOT_ENABLED", errCode(t, w))

	// With the module, creation succeeds
	entitled := seedTenant(t, s, "globex", "marketing")
	req = httptest.NewRequest(http.MethodPost, "/api/v1/templates",
		strings.NewReader(`{"name":"Welcome"}`))
	req = withTenant(req, entitled)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCreateDigitalJourney_DefaultsEmptySteps(t *testing.T) {
	s := store.NewMemoryStore()
	ten := seedTenant(t, s, "acme", "marketing")
	h := handler.NewCreateDigitalJourneyHandler(s)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/journeys",
		strings.NewReader(`{"name":"Onboarding"}`))
	req = withTenant(req, ten)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	journeys, err := s.ListDigitalJourneys(context.Background(), ten.ID)
	require.NoError(t, err)
	require.Len(t, journeys, 1)
	assert.Equal(t, "draft", journeys[0].Status)
	assert.JSONEq(t, "[]", string(journeys[0].Steps))
}

func TestCreateModuleSetting_DuplicateModuleConflicts(t *testing.T) {
	s := store.NewMemoryStore()
	ten := seedTenant(t, s, "acme")
	h := handler.NewCreateModuleSettingHandler(s)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/settings",
		strings.NewReader(`{"module":"sales"}`))
	req = withTenant(req, ten)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/settings",
		strings.NewReader(`{"module":"sales"}`))
	req = withTenant(req, ten)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandlers_MissingTenantIs401(t *testing.T) {
	s := store.NewMemoryStore()

	handlers := map[string]http.HandlerFunc{
		"accounts": handler.NewListAccountsHandler(s),
		"deals":    handler.NewListDealsHandler(s),
		"tickets":  handler.NewListSupportTicketsHandler(s),
	}
	for name, h := range handlers {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/"+name, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
	}
}
