package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stratocrm/strato/pkg/models"
)

// CRM entity CRUD. Every query filters on tenant_id; a lookup or update whose
// (id, tenant_id) pair does not match yields ErrNotFound, so a record in
// another tenant is indistinguishable from one that does not exist.

// --- Accounts ---

const accountCols = `id, tenant_id, name, industry, website, owner_id, created_at, updated_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.TenantID, &a.Name, &a.Industry, &a.Website,
		&a.OwnerID, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &a, nil
}

func (s *PostgresStore) CreateAccount(ctx context.Context, a *models.Account) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO accounts (id, tenant_id, name, industry, website, owner_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.TenantID, a.Name, a.Industry, a.Website, a.OwnerID, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetAccount(ctx context.Context, id uuid.UUID, tenantID models.TenantID) (*models.Account, error) {
	return scanAccount(s.pool.QueryRow(ctx,
		`SELECT `+accountCols+` FROM accounts WHERE id = $1 AND tenant_id = $2`, id, tenantID))
}

func (s *PostgresStore) ListAccounts(ctx context.Context, tenantID models.TenantID) ([]*models.Account, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+accountCols+` FROM accounts WHERE tenant_id = $1 ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []*models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateAccount(ctx context.Context, a *models.Account) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE accounts SET name = $3, industry = $4, website = $5, owner_id = $6, updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2`,
		a.ID, a.TenantID, a.Name, a.Industry, a.Website, a.OwnerID)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Contacts ---

const contactCols = `id, tenant_id, account_id, first_name, last_name, email, phone, created_at, updated_at`

func scanContact(row pgx.Row) (*models.Contact, error) {
	var c models.Contact
	err := row.Scan(&c.ID, &c.TenantID, &c.AccountID, &c.FirstName, &c.LastName,
		&c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan contact: %w", err)
	}
	return &c, nil
}

func (s *PostgresStore) CreateContact(ctx context.Context, c *models.Contact) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO contacts (id, tenant_id, account_id, first_name, last_name, email, phone, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.TenantID, c.AccountID, c.FirstName, c.LastName, c.Email, c.Phone, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetContact(ctx context.Context, id uuid.UUID, tenantID models.TenantID) (*models.Contact, error) {
	return scanContact(s.pool.QueryRow(ctx,
		`SELECT `+contactCols+` FROM contacts WHERE id = $1 AND tenant_id = $2`, id, tenantID))
}

func (s *PostgresStore) ListContacts(ctx context.Context, tenantID models.TenantID) ([]*models.Contact, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+contactCols+` FROM contacts WHERE tenant_id = $1 ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var out []*models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateContact(ctx context.Context, c *models.Contact) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE contacts SET account_id = $3, first_name = $4, last_name = $5, email = $6, phone = $7, updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2`,
		c.ID, c.TenantID, c.AccountID, c.FirstName, c.LastName, c.Email, c.Phone)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Deals ---

const dealCols = `id, tenant_id, account_id, name, stage, amount_cents, close_date, created_at, updated_at`

func scanDeal(row pgx.Row) (*models.Deal, error) {
	var d models.Deal
	err := row.Scan(&d.ID, &d.TenantID, &d.AccountID, &d.Name, &d.Stage,
		&d.AmountCents, &d.CloseDate, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan deal: %w", err)
	}
	return &d, nil
}

func (s *PostgresStore) CreateDeal(ctx context.Context, d *models.Deal) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO deals (id, tenant_id, account_id, name, stage, amount_cents, close_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		d.ID, d.TenantID, d.AccountID, d.Name, d.Stage, d.AmountCents, d.CloseDate, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create deal: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetDeal(ctx context.Context, id uuid.UUID, tenantID models.TenantID) (*models.Deal, error) {
	return scanDeal(s.pool.QueryRow(ctx,
		`SELECT `+dealCols+` FROM deals WHERE id = $1 AND tenant_id = $2`, id, tenantID))
}

func (s *PostgresStore) ListDeals(ctx context.Context, tenantID models.TenantID) ([]*models.Deal, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+dealCols+` FROM deals WHERE tenant_id = $1 ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	var out []*models.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateDeal(ctx context.Context, d *models.Deal) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE deals SET account_id = $3, name = $4, stage = $5, amount_cents = $6, close_date = $7, updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2`,
		d.ID, d.TenantID, d.AccountID, d.Name, d.Stage, d.AmountCents, d.CloseDate)
	if err != nil {
		return fmt.Errorf("update deal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Projects ---

const projectCols = `id, tenant_id, account_id, name, status, due_date, created_at, updated_at`

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.TenantID, &p.AccountID, &p.Name, &p.Status,
		&p.DueDate, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) CreateProject(ctx context.Context, p *models.Project) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO projects (id, tenant_id, account_id, name, status, due_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.TenantID, p.AccountID, p.Name, p.Status, p.DueDate, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetProject(ctx context.Context, id uuid.UUID, tenantID models.TenantID) (*models.Project, error) {
	return scanProject(s.pool.QueryRow(ctx,
		`SELECT `+projectCols+` FROM projects WHERE id = $1 AND tenant_id = $2`, id, tenantID))
}

func (s *PostgresStore) ListProjects(ctx context.Context, tenantID models.TenantID) ([]*models.Project, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+projectCols+` FROM projects WHERE tenant_id = $1 ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateProject(ctx context.Context, p *models.Project) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE projects SET account_id = $3, name = $4, status = $5, due_date = $6, updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2`,
		p.ID, p.TenantID, p.AccountID, p.Name, p.Status, p.DueDate)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Support Tickets ---

const ticketCols = `id, tenant_id, account_id, subject, body, status, priority, created_at, updated_at`

func scanTicket(row pgx.Row) (*models.SupportTicket, error) {
	var st models.SupportTicket
	err := row.Scan(&st.ID, &st.TenantID, &st.AccountID, &st.Subject, &st.Body,
		&st.Status, &st.Priority, &st.CreatedAt, &st.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan support ticket: %w", err)
	}
	return &st, nil
}

func (s *PostgresStore) CreateSupportTicket(ctx context.Context, st *models.SupportTicket) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO support_tickets (id, tenant_id, account_id, subject, body, status, priority, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		st.ID, st.TenantID, st.AccountID, st.Subject, st.Body, st.Status, st.Priority, st.CreatedAt, st.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create support ticket: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetSupportTicket(ctx context.Context, id uuid.UUID, tenantID models.TenantID) (*models.SupportTicket, error) {
	return scanTicket(s.pool.QueryRow(ctx,
		`SELECT `+ticketCols+` FROM support_tickets WHERE id = $1 AND tenant_id = $2`, id, tenantID))
}

func (s *PostgresStore) ListSupportTickets(ctx context.Context, tenantID models.TenantID) ([]*models.SupportTicket, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+ticketCols+` FROM support_tickets WHERE tenant_id = $1 ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list support tickets: %w", err)
	}
	defer rows.Close()

	var out []*models.SupportTicket
	for rows.Next() {
		st, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateSupportTicket(ctx context.Context, st *models.SupportTicket) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE support_tickets SET account_id = $3, subject = $4, body = $5, status = $6, priority = $7, updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2`,
		st.ID, st.TenantID, st.AccountID, st.Subject, st.Body, st.Status, st.Priority)
	if err != nil {
		return fmt.Errorf("update support ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Email Templates ---

const templateCols = `id, tenant_id, name, subject, body, created_at, updated_at`

func scanTemplate(row pgx.Row) (*models.EmailTemplate, error) {
	var e models.EmailTemplate
	err := row.Scan(&e.ID, &e.TenantID, &e.Name, &e.Subject, &e.Body, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan email template: %w", err)
	}
	return &e, nil
}

func (s *PostgresStore) CreateEmailTemplate(ctx context.Context, e *models.EmailTemplate) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO email_templates (id, tenant_id, name, subject, body, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.TenantID, e.Name, e.Subject, e.Body, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create email template: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetEmailTemplate(ctx context.Context, id uuid.UUID, tenantID models.TenantID) (*models.EmailTemplate, error) {
	return scanTemplate(s.pool.QueryRow(ctx,
		`SELECT `+templateCols+` FROM email_templates WHERE id = $1 AND tenant_id = $2`, id, tenantID))
}

func (s *PostgresStore) ListEmailTemplates(ctx context.Context, tenantID models.TenantID) ([]*models.EmailTemplate, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+templateCols+` FROM email_templates WHERE tenant_id = $1 ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list email templates: %w", err)
	}
	defer rows.Close()

	var out []*models.EmailTemplate
	for rows.Next() {
		e, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateEmailTemplate(ctx context.Context, e *models.EmailTemplate) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE email_templates SET name = $3, subject = $4, body = $5, updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2`,
		e.ID, e.TenantID, e.Name, e.Subject, e.Body)
	if err != nil {
		return fmt.Errorf("update email template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Digital Journeys ---

const journeyCols = `id, tenant_id, name, status, steps, created_at, updated_at`

func scanJourney(row pgx.Row) (*models.DigitalJourney, error) {
	var j models.DigitalJourney
	err := row.Scan(&j.ID, &j.TenantID, &j.Name, &j.Status, &j.Steps, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan digital journey: %w", err)
	}
	return &j, nil
}

func (s *PostgresStore) CreateDigitalJourney(ctx context.Context, j *models.DigitalJourney) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO digital_journeys (id, tenant_id, name, status, steps, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		j.ID, j.TenantID, j.Name, j.Status, j.Steps, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create digital journey: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetDigitalJourney(ctx context.Context, id uuid.UUID, tenantID models.TenantID) (*models.DigitalJourney, error) {
	return scanJourney(s.pool.QueryRow(ctx,
		`SELECT `+journeyCols+` FROM digital_journeys WHERE id = $1 AND tenant_id = $2`, id, tenantID))
}

func (s *PostgresStore) ListDigitalJourneys(ctx context.Context, tenantID models.TenantID) ([]*models.DigitalJourney, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+journeyCols+` FROM digital_journeys WHERE tenant_id = $1 ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list digital journeys: %w", err)
	}
	defer rows.Close()

	var out []*models.DigitalJourney
	for rows.Next() {
		j, err := scanJourney(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateDigitalJourney(ctx context.Context, j *models.DigitalJourney) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE digital_journeys SET name = $3, status = $4, steps = $5, updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2`,
		j.ID, j.TenantID, j.Name, j.Status, j.Steps)
	if err != nil {
		return fmt.Errorf("update digital journey: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Account Tasks ---

const taskCols = `id, tenant_id, account_id, title, status, assignee_id, due_date, created_at, updated_at`

func scanTask(row pgx.Row) (*models.AccountTask, error) {
	var at models.AccountTask
	err := row.Scan(&at.ID, &at.TenantID, &at.AccountID, &at.Title, &at.Status,
		&at.AssigneeID, &at.DueDate, &at.CreatedAt, &at.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account task: %w", err)
	}
	return &at, nil
}

func (s *PostgresStore) CreateAccountTask(ctx context.Context, at *models.AccountTask) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO account_tasks (id, tenant_id, account_id, title, status, assignee_id, due_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		at.ID, at.TenantID, at.AccountID, at.Title, at.Status, at.AssigneeID, at.DueDate, at.CreatedAt, at.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create account task: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetAccountTask(ctx context.Context, id uuid.UUID, tenantID models.TenantID) (*models.AccountTask, error) {
	return scanTask(s.pool.QueryRow(ctx,
		`SELECT `+taskCols+` FROM account_tasks WHERE id = $1 AND tenant_id = $2`, id, tenantID))
}

func (s *PostgresStore) ListAccountTasks(ctx context.Context, tenantID models.TenantID) ([]*models.AccountTask, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+taskCols+` FROM account_tasks WHERE tenant_id = $1 ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list account tasks: %w", err)
	}
	defer rows.Close()

	var out []*models.AccountTask
	for rows.Next() {
		at, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, at)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateAccountTask(ctx context.Context, at *models.AccountTask) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE account_tasks SET account_id = $3, title = $4, status = $5, assignee_id = $6, due_date = $7, updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2`,
		at.ID, at.TenantID, at.AccountID, at.Title, at.Status, at.AssigneeID, at.DueDate)
	if err != nil {
		return fmt.Errorf("update account task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Module Settings ---

const moduleCols = `id, tenant_id, module, enabled, settings, created_at, updated_at`

func scanModuleSetting(row pgx.Row) (*models.ModuleSetting, error) {
	var m models.ModuleSetting
	err := row.Scan(&m.ID, &m.TenantID, &m.Module, &m.Enabled, &m.Settings, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan module setting: %w", err)
	}
	return &m, nil
}

func (s *PostgresStore) CreateModuleSetting(ctx context.Context, m *models.ModuleSetting) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO module_settings (id, tenant_id, module, enabled, settings, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.TenantID, m.Module, m.Enabled, m.Settings, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create module setting: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetModuleSetting(ctx context.Context, id uuid.UUID, tenantID models.TenantID) (*models.ModuleSetting, error) {
	return scanModuleSetting(s.pool.QueryRow(ctx,
		`SELECT `+moduleCols+` FROM module_settings WHERE id = $1 AND tenant_id = $2`, id, tenantID))
}

func (s *PostgresStore) ListModuleSettings(ctx context.Context, tenantID models.TenantID) ([]*models.ModuleSetting, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+moduleCols+` FROM module_settings WHERE tenant_id = $1 ORDER BY module`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list module settings: %w", err)
	}
	defer rows.Close()

	var out []*models.ModuleSetting
	for rows.Next() {
		m, err := scanModuleSetting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateModuleSetting(ctx context.Context, m *models.ModuleSetting) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE module_settings SET module = $3, enabled = $4, settings = $5, updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2`,
		m.ID, m.TenantID, m.Module, m.Enabled, m.Settings)
	if err != nil {
		return fmt.Errorf("update module setting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
