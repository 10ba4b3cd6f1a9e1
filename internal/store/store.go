package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stratocrm/strato/pkg/models"
)

// ErrNotFound is returned when a record does not exist or belongs to a
// different tenant. The two cases are deliberately indistinguishable so that
// callers cannot probe for records in other tenants.
var ErrNotFound = errors.New("resource not found")

var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. Every method that touches a
// tenant-scoped record requires a models.TenantID; there is no default or
// ambient tenant, and omitting the argument does not compile.
type Store interface {
	Ping(ctx context.Context) error

	// Tenants are platform-owned and never hard-deleted.
	CreateTenant(ctx context.Context, t *models.Tenant) error
	GetTenant(ctx context.Context, id models.TenantID) (*models.Tenant, error)
	GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	ListTenants(ctx context.Context) ([]*models.Tenant, error)
	UpdateTenant(ctx context.Context, t *models.Tenant) error
	DeactivateTenant(ctx context.Context, id models.TenantID) error

	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uuid.UUID, tenantID models.TenantID) (*models.User, error)
	GetUserByUsername(ctx context.Context, tenantID models.TenantID, username string) (*models.User, error)

	GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	ListAPIKeys(ctx context.Context, tenantID models.TenantID) ([]*models.APIKey, error)
	RevokeAPIKey(ctx context.Context, id uuid.UUID, tenantID models.TenantID) error

	CreateAccount(ctx context.Context, a *models.Account) error
	GetAccount(ctx context.Context, id uuid.UUID, tenantID models.TenantID) (*models.Account, error)
	ListAccounts(ctx context.Context, tenantID models.TenantID) ([]*models.Account, error)
	UpdateAccount(ctx context.Context, a *models.Account) error

	CreateContact(ctx context.Context, c *models.Contact) error
	GetContact(ctx context.Context, id uuid.UUID, tenantID models.TenantID) (*models.Contact, error)
	ListContacts(ctx context.Context, tenantID models.TenantID) ([]*models.Contact, error)
	UpdateContact(ctx context.Context, c *models.Contact) error

	CreateDeal(ctx context.Context, d *models.Deal) error
	GetDeal(ctx context.Context, id uuid.UUID, tenantID models.TenantID) (*models.Deal, error)
	ListDeals(ctx context.Context, tenantID models.TenantID) ([]*models.Deal, error)
	UpdateDeal(ctx context.Context, d *models.Deal) error

	CreateProject(ctx context.Context, p *models.Project) error
	GetProject(ctx context.Context, id uuid.UUID, tenantID models.TenantID) (*models.Project, error)
	ListProjects(ctx context.Context, tenantID models.TenantID) ([]*models.Project, error)
	UpdateProject(ctx context.Context, p *models.Project) error

	CreateSupportTicket(ctx context.Context, s *models.SupportTicket) error
	GetSupportTicket(ctx context.Context, id uuid.UUID, tenantID models.TenantID) (*models.SupportTicket, error)
	ListSupportTickets(ctx context.Context, tenantID models.TenantID) ([]*models.SupportTicket, error)
	UpdateSupportTicket(ctx context.Context, s *models.SupportTicket) error

	CreateEmailTemplate(ctx context.Context, e *models.EmailTemplate) error
	GetEmailTemplate(ctx context.Context, id uuid.UUID, tenantID models.TenantID) (*models.EmailTemplate, error)
	ListEmailTemplates(ctx context.Context, tenantID models.TenantID) ([]*models.EmailTemplate, error)
	UpdateEmailTemplate(ctx context.Context, e *models.EmailTemplate) error

	CreateDigitalJourney(ctx context.Context, j *models.DigitalJourney) error
	GetDigitalJourney(ctx context.Context, id uuid.UUID, tenantID models.TenantID) (*models.DigitalJourney, error)
	ListDigitalJourneys(ctx context.Context, tenantID models.TenantID) ([]*models.DigitalJourney, error)
	UpdateDigitalJourney(ctx context.Context, j *models.DigitalJourney) error

	CreateAccountTask(ctx context.Context, a *models.AccountTask) error
	GetAccountTask(ctx context.Context, id uuid.UUID, tenantID models.TenantID) (*models.AccountTask, error)
	ListAccountTasks(ctx context.Context, tenantID models.TenantID) ([]*models.AccountTask, error)
	UpdateAccountTask(ctx context.Context, a *models.AccountTask) error

	CreateModuleSetting(ctx context.Context, m *models.ModuleSetting) error
	GetModuleSetting(ctx context.Context, id uuid.UUID, tenantID models.TenantID) (*models.ModuleSetting, error)
	ListModuleSettings(ctx context.Context, tenantID models.TenantID) ([]*models.ModuleSetting, error)
	UpdateModuleSetting(ctx context.Context, m *models.ModuleSetting) error
}
