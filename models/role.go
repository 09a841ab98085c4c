package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Built-in role names. Both are seeded at install time and can be neither
// renamed nor deleted.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Role is a named set of permission keys. Names are uppercase by convention.
// Permissions is stored as raw JSON bytes to avoid ORM map parsing issues.
type Role struct {
	Name        string          `gorm:"column:name;primaryKey" json:"name"`
	Permissions json.RawMessage `gorm:"column:permissions" json:"permissions"`
	Description string          `gorm:"column:description" json:"description,omitempty"`
	CreatedAt   time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (Role) TableName() string { return "roles" }

// IsBuiltIn reports whether name is one of the protected built-in roles.
func IsBuiltIn(name string) bool {
	n := strings.ToUpper(strings.TrimSpace(name))
	return n == RoleAdmin || n == RoleUser
}

// PermissionKeys decodes the stored permission array. A role with an empty or
// malformed permission column yields no keys rather than an error.
func (r Role) PermissionKeys() []string {
	if len(r.Permissions) == 0 {
		return nil
	}
	var keys []string
	if err := json.Unmarshal(r.Permissions, &keys); err != nil {
		return nil
	}
	return keys
}

// EncodePermissions marshals a key list for storage.
func EncodePermissions(keys []string) json.RawMessage {
	if keys == nil {
		keys = []string{}
	}
	b, _ := json.Marshal(keys)
	return b
}
