package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stratocrm/strato/internal/store"
	"github.com/stratocrm/strato/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_TenantLifecycle(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	ten := newTenant("acme")
	require.NoError(t, s.CreateTenant(ctx, ten))

	got, err := s.GetTenantBySlug(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, ten.ID, got.ID)

	// Slug match is case-insensitive on create, so a recased duplicate fails
	dup := newTenant("ACME")
	dup.Slug = "ACME"
	assert.ErrorIs(t, s.CreateTenant(ctx, dup), store.ErrDuplicateKey)

	require.NoError(t, s.DeactivateTenant(ctx, ten.ID))
	got, err = s.GetTenant(ctx, ten.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	ten := newTenant("acme")
	require.NoError(t, s.CreateTenant(ctx, ten))
	a := newAccount(ten.ID, "Initech")
	require.NoError(t, s.CreateAccount(ctx, a))

	got, err := s.GetAccount(ctx, a.ID, ten.ID)
	require.NoError(t, err)
	got.Name = "Mutated"

	again, err := s.GetAccount(ctx, a.ID, ten.ID)
	require.NoError(t, err)
	assert.Equal(t, "Initech", again.Name)
}

// Every entity type enforces the same rule: a record is invisible outside
// its tenant, for reads and writes alike.
func TestMemoryStore_IsolationAcrossEntityTypes(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	acme := newTenant("acme")
	globex := newTenant("globex")
	require.NoError(t, s.CreateTenant(ctx, acme))
	require.NoError(t, s.CreateTenant(ctx, globex))
	now := time.Now().UTC()

	acct := newAccount(acme.ID, "Initech")
	require.NoError(t, s.CreateAccount(ctx, acct))

	contact := &models.Contact{ID: uuid.New(), TenantID: acme.ID, FirstName: "Ada", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.CreateContact(ctx, contact))

	deal := &models.Deal{ID: uuid.New(), TenantID: acme.ID, Name: "Renewal", Stage: "prospecting", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.CreateDeal(ctx, deal))

	project := &models.Project{ID: uuid.New(), TenantID: acme.ID, Name: "Rollout", Status: "active", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.CreateProject(ctx, project))

	ticket := &models.SupportTicket{ID: uuid.New(), TenantID: acme.ID, Subject: "Help", Status: "open", Priority: "normal", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.CreateSupportTicket(ctx, ticket))

	template := &models.EmailTemplate{ID: uuid.New(), TenantID: acme.ID, Name: "Welcome", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.CreateEmailTemplate(ctx, template))

	journey := &models.DigitalJourney{ID: uuid.New(), TenantID: acme.ID, Name: "Onboarding", Status: "draft", Steps: []byte("[]"), CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.CreateDigitalJourney(ctx, journey))

	task := &models.AccountTask{ID: uuid.New(), TenantID: acme.ID, AccountID: acct.ID, Title: "Call back", Status: "open", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.CreateAccountTask(ctx, task))

	setting := &models.ModuleSetting{ID: uuid.New(), TenantID: acme.ID, Module: "sales", Enabled: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.CreateModuleSetting(ctx, setting))

	checks := []struct {
		name string
		get  func(models.TenantID) error
	}{
		{"account", func(id models.TenantID) error { _, err := s.GetAccount(ctx, acct.ID, id); return err }},
		{"contact", func(id models.TenantID) error { _, err := s.GetContact(ctx, contact.ID, id); return err }},
		{"deal", func(id models.TenantID) error { _, err := s.GetDeal(ctx, deal.ID, id); return err }},
		{"project", func(id models.TenantID) error { _, err := s.GetProject(ctx, project.ID, id); return err }},
		{"ticket", func(id models.TenantID) error { _, err := s.GetSupportTicket(ctx, ticket.ID, id); return err }},
		{"template", func(id models.TenantID) error { _, err := s.GetEmailTemplate(ctx, template.ID, id); return err }},
		{"journey", func(id models.TenantID) error { _, err := s.GetDigitalJourney(ctx, journey.ID, id); return err }},
		{"task", func(id models.TenantID) error { _, err := s.GetAccountTask(ctx, task.ID, id); return err }},
		{"setting", func(id models.TenantID) error { _, err := s.GetModuleSetting(ctx, setting.ID, id); return err }},
	}
	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			assert.NoError(t, c.get(acme.ID), "owner tenant should see its record")
			assert.ErrorIs(t, c.get(globex.ID), store.ErrNotFound, "foreign tenant must not")
		})
	}

	// Lists are scoped too
	list, err := s.ListDeals(ctx, globex.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMemoryStore_CrossTenantUpdateRejected(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	acme := newTenant("acme")
	globex := newTenant("globex")
	require.NoError(t, s.CreateTenant(ctx, acme))
	require.NoError(t, s.CreateTenant(ctx, globex))

	a := newAccount(acme.ID, "Initech")
	require.NoError(t, s.CreateAccount(ctx, a))

	evil := *a
	evil.TenantID = globex.ID
	evil.Name = "Hijacked"
	assert.ErrorIs(t, s.UpdateAccount(ctx, &evil), store.ErrNotFound)

	got, err := s.GetAccount(ctx, a.ID, acme.ID)
	require.NoError(t, err)
	assert.Equal(t, "Initech", got.Name)
}

func TestMemoryStore_UsernameUniquePerTenant(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	acme := newTenant("acme")
	globex := newTenant("globex")
	require.NoError(t, s.CreateTenant(ctx, acme))
	require.NoError(t, s.CreateTenant(ctx, globex))
	now := time.Now().UTC()

	require.NoError(t, s.CreateUser(ctx, &models.User{
		ID: uuid.New(), TenantID: acme.ID, Username: "alice", PasswordHash: "x",
		Role: "admin", CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, s.CreateUser(ctx, &models.User{
		ID: uuid.New(), TenantID: globex.ID, Username: "alice", PasswordHash: "y",
		Role: "admin", CreatedAt: now, UpdatedAt: now,
	}))
	assert.ErrorIs(t, s.CreateUser(ctx, &models.User{
		ID: uuid.New(), TenantID: acme.ID, Username: "alice", PasswordHash: "z",
		Role: "member", CreatedAt: now, UpdatedAt: now,
	}), store.ErrDuplicateKey)
}
