package models

import (
	"time"

	"github.com/google/uuid"
)

// Deal stages form a pipeline; AmountCents avoids float currency math.
type Deal struct {
	ID          uuid.UUID  `db:"id"           json:"id"`
	TenantID    TenantID   `db:"tenant_id"    json:"tenant_id"`
	AccountID   *uuid.UUID `db:"account_id"   json:"account_id,omitempty"`
	Name        string     `db:"name"         json:"name"`
	Stage       string     `db:"stage"        json:"stage"`
	AmountCents int64      `db:"amount_cents" json:"amount_cents"`
	CloseDate   *time.Time `db:"close_date"   json:"close_date,omitempty"`
	CreatedAt   time.Time  `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"   json:"updated_at"`
}

// Project tracks delivery work for an account.
type Project struct {
	ID        uuid.UUID  `db:"id"         json:"id"`
	TenantID  TenantID   `db:"tenant_id"  json:"tenant_id"`
	AccountID *uuid.UUID `db:"account_id" json:"account_id,omitempty"`
	Name      string     `db:"name"       json:"name"`
	Status    string     `db:"status"     json:"status"`
	DueDate   *time.Time `db:"due_date"   json:"due_date,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// SupportTicket is a customer support request.
type SupportTicket struct {
	ID        uuid.UUID  `db:"id"         json:"id"`
	TenantID  TenantID   `db:"tenant_id"  json:"tenant_id"`
	AccountID *uuid.UUID `db:"account_id" json:"account_id,omitempty"`
	Subject   string     `db:"subject"    json:"subject"`
	Body      string     `db:"body"       json:"body"`
	Status    string     `db:"status"     json:"status"`
	Priority  string     `db:"priority"   json:"priority"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}
