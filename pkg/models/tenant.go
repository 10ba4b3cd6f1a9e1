package models

import (
	"time"
)

// Reserved subdomain labels that can never be tenant slugs.
var ReservedSlugs = map[string]bool{
	"www": true,
	"app": true,
	"api": true,
}

// Tenant represents a customer organization. The slug doubles as the tenant's
// subdomain; every other entity belongs to a tenant via TenantID. Tenants are
// never hard-deleted, only deactivated.
type Tenant struct {
	ID           TenantID  `db:"id"            json:"id"`
	Slug         string    `db:"slug"          json:"slug"`
	Name         string    `db:"name"          json:"name"`
	AdminEmail   string    `db:"admin_email"   json:"admin_email"`
	Active       bool      `db:"active"        json:"active"`
	Plan         string    `db:"plan"          json:"plan"`
	Modules      []string  `db:"modules"       json:"modules"`
	CustomDomain *string   `db:"custom_domain" json:"custom_domain,omitempty"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"    json:"updated_at"`
}

// HasModule reports whether the tenant's plan entitles it to a module.
func (t *Tenant) HasModule(name string) bool {
	for _, m := range t.Modules {
		if m == name {
			return true
		}
	}
	return false
}
