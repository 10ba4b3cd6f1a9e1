package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a tenant member. Usernames are unique per tenant, not globally, so
// the same username can map to different accounts in different tenants.
// Raw passwords are never stored; only the bcrypt hash.
type User struct {
	ID           uuid.UUID `db:"id"            json:"id"`
	TenantID     TenantID  `db:"tenant_id"     json:"tenant_id"`
	Username     string    `db:"username"      json:"username"`
	Email        string    `db:"email"         json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role"          json:"role"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"    json:"updated_at"`
}
