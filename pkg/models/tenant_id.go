package models

import (
	"github.com/google/uuid"
)

// TenantID identifies a tenant. It is a distinct type so that every
// tenant-scoped store method requires one explicitly; a plain string or
// uuid.UUID does not compile where a TenantID is expected.
type TenantID uuid.UUID

// NilTenantID is the zero TenantID.
var NilTenantID TenantID

// NewTenantID returns a random TenantID.
func NewTenantID() TenantID {
	return TenantID(uuid.New())
}

// ParseTenantID parses a TenantID from its canonical string form.
func ParseTenantID(s string) (TenantID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return NilTenantID, err
	}
	return TenantID(id), nil
}

func (t TenantID) String() string {
	return uuid.UUID(t).String()
}

// IsZero reports whether t is the zero TenantID.
func (t TenantID) IsZero() bool {
	return t == NilTenantID
}

// MarshalText implements encoding.TextMarshaler so TenantID serializes as the
// canonical UUID string in JSON.
func (t TenantID) MarshalText() ([]byte, error) {
	return uuid.UUID(t).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TenantID) UnmarshalText(b []byte) error {
	var id uuid.UUID
	if err := id.UnmarshalText(b); err != nil {
		return err
	}
	*t = TenantID(id)
	return nil
}
