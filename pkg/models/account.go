package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is a company the tenant does business with.
type Account struct {
	ID        uuid.UUID  `db:"id"         json:"id"`
	TenantID  TenantID   `db:"tenant_id"  json:"tenant_id"`
	Name      string     `db:"name"       json:"name"`
	Industry  string     `db:"industry"   json:"industry"`
	Website   string     `db:"website"    json:"website"`
	OwnerID   *uuid.UUID `db:"owner_id"   json:"owner_id,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// Contact is a person at an account.
type Contact struct {
	ID        uuid.UUID  `db:"id"         json:"id"`
	TenantID  TenantID   `db:"tenant_id"  json:"tenant_id"`
	AccountID *uuid.UUID `db:"account_id" json:"account_id,omitempty"`
	FirstName string     `db:"first_name" json:"first_name"`
	LastName  string     `db:"last_name"  json:"last_name"`
	Email     string     `db:"email"      json:"email"`
	Phone     string     `db:"phone"      json:"phone"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// AccountTask is a follow-up item attached to an account.
type AccountTask struct {
	ID         uuid.UUID  `db:"id"          json:"id"`
	TenantID   TenantID   `db:"tenant_id"   json:"tenant_id"`
	AccountID  uuid.UUID  `db:"account_id"  json:"account_id"`
	Title      string     `db:"title"       json:"title"`
	Status     string     `db:"status"      json:"status"`
	AssigneeID *uuid.UUID `db:"assignee_id" json:"assignee_id,omitempty"`
	DueDate    *time.Time `db:"due_date"    json:"due_date,omitempty"`
	CreatedAt  time.Time  `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"  json:"updated_at"`
}
