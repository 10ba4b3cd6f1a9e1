package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stratocrm/strato/pkg/models"
)

// MemoryStore is a flat in-memory Store for local development and tests.
// Records are held in single id-keyed maps with no physical partitioning, so
// tenant isolation rests entirely on the access-layer checks below: every
// lookup and mutation compares the stored tenant id against the caller's.
type MemoryStore struct {
	mu sync.RWMutex

	tenants  map[models.TenantID]*models.Tenant
	users    map[uuid.UUID]*models.User
	apiKeys  map[uuid.UUID]*models.APIKey
	accounts map[uuid.UUID]*models.Account
	contacts map[uuid.UUID]*models.Contact
	deals    map[uuid.UUID]*models.Deal
	projects map[uuid.UUID]*models.Project
	tickets  map[uuid.UUID]*models.SupportTicket
	emails   map[uuid.UUID]*models.EmailTemplate
	journeys map[uuid.UUID]*models.DigitalJourney
	tasks    map[uuid.UUID]*models.AccountTask
	modules  map[uuid.UUID]*models.ModuleSetting
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tenants:  make(map[models.TenantID]*models.Tenant),
		users:    make(map[uuid.UUID]*models.User),
		apiKeys:  make(map[uuid.UUID]*models.APIKey),
		accounts: make(map[uuid.UUID]*models.Account),
		contacts: make(map[uuid.UUID]*models.Contact),
		deals:    make(map[uuid.UUID]*models.Deal),
		projects: make(map[uuid.UUID]*models.Project),
		tickets:  make(map[uuid.UUID]*models.SupportTicket),
		emails:   make(map[uuid.UUID]*models.EmailTemplate),
		journeys: make(map[uuid.UUID]*models.DigitalJourney),
		tasks:    make(map[uuid.UUID]*models.AccountTask),
		modules:  make(map[uuid.UUID]*models.ModuleSetting),
	}
}

func (s *MemoryStore) Ping(_ context.Context) error { return nil }

// memGet returns a copy of the record only when its tenant matches.
func memGet[T any](rows map[uuid.UUID]*T, id uuid.UUID, tenantID models.TenantID,
	tenantOf func(*T) models.TenantID) (*T, error) {
	row, ok := rows[id]
	if !ok || tenantOf(row) != tenantID {
		return nil, ErrNotFound
	}
	out := *row
	return &out, nil
}

// memList returns copies of all records belonging to the tenant.
func memList[T any](rows map[uuid.UUID]*T, tenantID models.TenantID,
	tenantOf func(*T) models.TenantID) []*T {
	var out []*T
	for _, row := range rows {
		if tenantOf(row) == tenantID {
			c := *row
			out = append(out, &c)
		}
	}
	return out
}

// memUpdate replaces the record only when the stored tenant matches; an id
// that exists under another tenant is treated as absent.
func memUpdate[T any](rows map[uuid.UUID]*T, id uuid.UUID, tenantID models.TenantID,
	tenantOf func(*T) models.TenantID, updated *T) error {
	row, ok := rows[id]
	if !ok || tenantOf(row) != tenantID {
		return ErrNotFound
	}
	c := *updated
	rows[id] = &c
	return nil
}

func memCreate[T any](rows map[uuid.UUID]*T, id uuid.UUID, row *T) {
	c := *row
	rows[id] = &c
}

// --- Tenants ---

func (s *MemoryStore) CreateTenant(_ context.Context, t *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.tenants {
		if strings.EqualFold(existing.Slug, t.Slug) {
			return ErrDuplicateKey
		}
	}
	c := *t
	s.tenants[t.ID] = &c
	return nil
}

func (s *MemoryStore) GetTenant(_ context.Context, id models.TenantID) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tenants[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *t
	return &c, nil
}

func (s *MemoryStore) GetTenantBySlug(_ context.Context, slug string) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tenants {
		if strings.EqualFold(t.Slug, slug) {
			c := *t
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListTenants(_ context.Context) ([]*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Tenant, 0, len(s.tenants))
	for _, t := range s.tenants {
		c := *t
		out = append(out, &c)
	}
	return out, nil
}

func (s *MemoryStore) UpdateTenant(_ context.Context, t *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tenants[t.ID]; !ok {
		return ErrNotFound
	}
	c := *t
	c.UpdatedAt = time.Now().UTC()
	s.tenants[t.ID] = &c
	return nil
}

func (s *MemoryStore) DeactivateTenant(_ context.Context, id models.TenantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[id]
	if !ok {
		return ErrNotFound
	}
	t.Active = false
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// --- Users ---

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.TenantID == u.TenantID && strings.EqualFold(existing.Username, u.Username) {
			return ErrDuplicateKey
		}
	}
	memCreate(s.users, u.ID, u)
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, id uuid.UUID, tenantID models.TenantID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memGet(s.users, id, tenantID, func(u *models.User) models.TenantID { return u.TenantID })
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, tenantID models.TenantID, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.TenantID == tenantID && strings.EqualFold(u.Username, username) {
			c := *u
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// --- API Keys ---

func (s *MemoryStore) GetAPIKeyByPrefix(_ context.Context, prefix string) ([]*models.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.APIKey
	for _, k := range s.apiKeys {
		if k.KeyPrefix == prefix && k.DeletedAt == nil {
			c := *k
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateAPIKeyLastUsed(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if k, ok := s.apiKeys[id]; ok {
		now := time.Now().UTC()
		k.LastUsedAt = &now
	}
	return nil
}

func (s *MemoryStore) CreateAPIKey(_ context.Context, key *models.APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	memCreate(s.apiKeys, key.ID, key)
	return nil
}

func (s *MemoryStore) ListAPIKeys(_ context.Context, tenantID models.TenantID) ([]*models.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.APIKey
	for _, k := range s.apiKeys {
		if k.TenantID == tenantID && k.DeletedAt == nil {
			c := *k
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *MemoryStore) RevokeAPIKey(_ context.Context, id uuid.UUID, tenantID models.TenantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k, ok := s.apiKeys[id]
	if !ok || k.TenantID != tenantID || k.DeletedAt != nil {
		return ErrNotFound
	}
	now := time.Now().UTC()
	k.DeletedAt = &now
	return nil
}

// --- Accounts ---

func tenantOfAccount(a *models.Account) models.TenantID { return a.TenantID }

func (s *MemoryStore) CreateAccount(_ context.Context, a *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	memCreate(s.accounts, a.ID, a)
	return nil
}

func (s *MemoryStore) GetAccount(_ context.Context, id uuid.UUID, tenantID models.TenantID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memGet(s.accounts, id, tenantID, tenantOfAccount)
}

func (s *MemoryStore) ListAccounts(_ context.Context, tenantID models.TenantID) ([]*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memList(s.accounts, tenantID, tenantOfAccount), nil
}

func (s *MemoryStore) UpdateAccount(_ context.Context, a *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memUpdate(s.accounts, a.ID, a.TenantID, tenantOfAccount, a)
}

// --- Contacts ---

func tenantOfContact(c *models.Contact) models.TenantID { return c.TenantID }

func (s *MemoryStore) CreateContact(_ context.Context, c *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	memCreate(s.contacts, c.ID, c)
	return nil
}

func (s *MemoryStore) GetContact(_ context.Context, id uuid.UUID, tenantID models.TenantID) (*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memGet(s.contacts, id, tenantID, tenantOfContact)
}

func (s *MemoryStore) ListContacts(_ context.Context, tenantID models.TenantID) ([]*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memList(s.contacts, tenantID, tenantOfContact), nil
}

func (s *MemoryStore) UpdateContact(_ context.Context, c *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memUpdate(s.contacts, c.ID, c.TenantID, tenantOfContact, c)
}

// --- Deals ---

func tenantOfDeal(d *models.Deal) models.TenantID { return d.TenantID }

func (s *MemoryStore) CreateDeal(_ context.Context, d *models.Deal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	memCreate(s.deals, d.ID, d)
	return nil
}

func (s *MemoryStore) GetDeal(_ context.Context, id uuid.UUID, tenantID models.TenantID) (*models.Deal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memGet(s.deals, id, tenantID, tenantOfDeal)
}

func (s *MemoryStore) ListDeals(_ context.Context, tenantID models.TenantID) ([]*models.Deal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memList(s.deals, tenantID, tenantOfDeal), nil
}

func (s *MemoryStore) UpdateDeal(_ context.Context, d *models.Deal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memUpdate(s.deals, d.ID, d.TenantID, tenantOfDeal, d)
}

// --- Projects ---

func tenantOfProject(p *models.Project) models.TenantID { return p.TenantID }

func (s *MemoryStore) CreateProject(_ context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	memCreate(s.projects, p.ID, p)
	return nil
}

func (s *MemoryStore) GetProject(_ context.Context, id uuid.UUID, tenantID models.TenantID) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memGet(s.projects, id, tenantID, tenantOfProject)
}

func (s *MemoryStore) ListProjects(_ context.Context, tenantID models.TenantID) ([]*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memList(s.projects, tenantID, tenantOfProject), nil
}

func (s *MemoryStore) UpdateProject(_ context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memUpdate(s.projects, p.ID, p.TenantID, tenantOfProject, p)
}

// --- Support Tickets ---

func tenantOfTicket(t *models.SupportTicket) models.TenantID { return t.TenantID }

func (s *MemoryStore) CreateSupportTicket(_ context.Context, t *models.SupportTicket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	memCreate(s.tickets, t.ID, t)
	return nil
}

func (s *MemoryStore) GetSupportTicket(_ context.Context, id uuid.UUID, tenantID models.TenantID) (*models.SupportTicket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memGet(s.tickets, id, tenantID, tenantOfTicket)
}

func (s *MemoryStore) ListSupportTickets(_ context.Context, tenantID models.TenantID) ([]*models.SupportTicket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memList(s.tickets, tenantID, tenantOfTicket), nil
}

func (s *MemoryStore) UpdateSupportTicket(_ context.Context, t *models.SupportTicket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memUpdate(s.tickets, t.ID, t.TenantID, tenantOfTicket, t)
}

// --- Email Templates ---

func tenantOfTemplate(e *models.EmailTemplate) models.TenantID { return e.TenantID }

func (s *MemoryStore) CreateEmailTemplate(_ context.Context, e *models.EmailTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	memCreate(s.emails, e.ID, e)
	return nil
}

func (s *MemoryStore) GetEmailTemplate(_ context.Context, id uuid.UUID, tenantID models.TenantID) (*models.EmailTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memGet(s.emails, id, tenantID, tenantOfTemplate)
}

func (s *MemoryStore) ListEmailTemplates(_ context.Context, tenantID models.TenantID) ([]*models.EmailTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memList(s.emails, tenantID, tenantOfTemplate), nil
}

func (s *MemoryStore) UpdateEmailTemplate(_ context.Context, e *models.EmailTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memUpdate(s.emails, e.ID, e.TenantID, tenantOfTemplate, e)
}

// --- Digital Journeys ---

func tenantOfJourney(j *models.DigitalJourney) models.TenantID { return j.TenantID }

func (s *MemoryStore) CreateDigitalJourney(_ context.Context, j *models.DigitalJourney) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	memCreate(s.journeys, j.ID, j)
	return nil
}

func (s *MemoryStore) GetDigitalJourney(_ context.Context, id uuid.UUID, tenantID models.TenantID) (*models.DigitalJourney, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memGet(s.journeys, id, tenantID, tenantOfJourney)
}

func (s *MemoryStore) ListDigitalJourneys(_ context.Context, tenantID models.TenantID) ([]*models.DigitalJourney, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memList(s.journeys, tenantID, tenantOfJourney), nil
}

func (s *MemoryStore) UpdateDigitalJourney(_ context.Context, j *models.DigitalJourney) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memUpdate(s.journeys, j.ID, j.TenantID, tenantOfJourney, j)
}

// --- Account Tasks ---

func tenantOfTask(t *models.AccountTask) models.TenantID { return t.TenantID }

func (s *MemoryStore) CreateAccountTask(_ context.Context, t *models.AccountTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	memCreate(s.tasks, t.ID, t)
	return nil
}

func (s *MemoryStore) GetAccountTask(_ context.Context, id uuid.UUID, tenantID models.TenantID) (*models.AccountTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memGet(s.tasks, id, tenantID, tenantOfTask)
}

func (s *MemoryStore) ListAccountTasks(_ context.Context, tenantID models.TenantID) ([]*models.AccountTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memList(s.tasks, tenantID, tenantOfTask), nil
}

func (s *MemoryStore) UpdateAccountTask(_ context.Context, t *models.AccountTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memUpdate(s.tasks, t.ID, t.TenantID, tenantOfTask, t)
}

// --- Module Settings ---

func tenantOfModule(m *models.ModuleSetting) models.TenantID { return m.TenantID }

func (s *MemoryStore) CreateModuleSetting(_ context.Context, m *models.ModuleSetting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.modules {
		if existing.TenantID == m.TenantID && existing.Module == m.Module {
			return ErrDuplicateKey
		}
	}
	memCreate(s.modules, m.ID, m)
	return nil
}

func (s *MemoryStore) GetModuleSetting(_ context.Context, id uuid.UUID, tenantID models.TenantID) (*models.ModuleSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memGet(s.modules, id, tenantID, tenantOfModule)
}

func (s *MemoryStore) ListModuleSettings(_ context.Context, tenantID models.TenantID) ([]*models.ModuleSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memList(s.modules, tenantID, tenantOfModule), nil
}

func (s *MemoryStore) UpdateModuleSetting(_ context.Context, m *models.ModuleSetting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memUpdate(s.modules, m.ID, m.TenantID, tenantOfModule, m)
}
