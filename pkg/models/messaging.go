package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EmailTemplate is a reusable outbound email body with {{placeholder}} fields.
type EmailTemplate struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	TenantID  TenantID  `db:"tenant_id"  json:"tenant_id"`
	Name      string    `db:"name"       json:"name"`
	Subject   string    `db:"subject"    json:"subject"`
	Body      string    `db:"body"       json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DigitalJourney is a multi-step outreach sequence. Steps is an opaque JSON
// document owned by the journey editor; the server stores and scopes it but
// does not interpret it.
type DigitalJourney struct {
	ID        uuid.UUID       `db:"id"         json:"id"`
	TenantID  TenantID        `db:"tenant_id"  json:"tenant_id"`
	Name      string          `db:"name"       json:"name"`
	Status    string          `db:"status"     json:"status"`
	Steps     json.RawMessage `db:"steps"      json:"steps"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// ModuleSetting records whether a plan module is enabled for a tenant and its
// per-tenant configuration blob.
type ModuleSetting struct {
	ID        uuid.UUID       `db:"id"         json:"id"`
	TenantID  TenantID        `db:"tenant_id"  json:"tenant_id"`
	Module    string          `db:"module"     json:"module"`
	Enabled   bool            `db:"enabled"    json:"enabled"`
	Settings  json.RawMessage `db:"settings"   json:"settings,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}
