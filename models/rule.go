package models

import "time"

// RuleKind distinguishes exact-email rules from whole-domain rules.
const (
	RuleKindEmail  = "EMAIL"
	RuleKindDomain = "DOMAIN"
)

// AccessRule binds an identity pattern (full email or bare domain) to a role
// name. Value is always stored lowercase and trimmed. Rules are never edited
// in place; changes are modeled as delete-then-reinsert.
type AccessRule struct {
	ID          string    `gorm:"column:id;primaryKey" json:"id"`
	Value       string    `gorm:"column:value;index" json:"value"`
	Kind        string    `gorm:"column:kind" json:"kind"`
	Role        string    `gorm:"column:role;index" json:"role"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (AccessRule) TableName() string { return "access_rules" }

// RuleGroup is the grouped admin view of all rules sharing one value.
// Effective is the role the login-time resolver would pick for that value.
type RuleGroup struct {
	Value     string       `json:"value"`
	Kind      string       `json:"kind"`
	Roles     []string     `json:"roles"`
	Effective string       `json:"effective"`
	Rules     []AccessRule `json:"rules"`
}
