// Package authz maps an authenticating identity to its effective role and
// granted permission set. Resolution is fail-safe: storage trouble degrades
// to the minimal USER role and an empty permission set, never to a blocked
// login and never to an elevated role.
package authz

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/patentvault/patentvault/identity"
	"github.com/patentvault/patentvault/models"
	"github.com/patentvault/patentvault/permission"
)

// RuleSource is the subset of the rule store the resolver needs.
type RuleSource interface {
	FindEmailRule(ctx context.Context, value string) (*models.AccessRule, error)
	FindDomainRule(ctx context.Context, domain string) (*models.AccessRule, error)
}

// RoleSource is the subset of the role registry the resolver needs.
type RoleSource interface {
	GetRole(ctx context.Context, name string) (*models.Role, error)
}

// Resolver applies rule precedence (exact email beats domain) over the rule
// store and expands the winning role through the role registry.
type Resolver struct {
	Rules RuleSource
	Roles RoleSource
	Norm  *identity.Normalizer
}

func NewResolver(rules RuleSource, roles RoleSource, norm *identity.Normalizer) *Resolver {
	return &Resolver{Rules: rules, Roles: roles, Norm: norm}
}

// ResolveRole determines the effective role for rawEmail. First match wins:
// exact EMAIL rule on the canonical value, then DOMAIN rule, then USER.
// Store errors at a tier count as "no match" at that tier; a transient
// rule-store outage must not block authentication.
func (r *Resolver) ResolveRole(ctx context.Context, rawEmail string) string {
	canonical := r.Norm.Normalize(rawEmail)

	if rule, err := r.Rules.FindEmailRule(ctx, canonical); err == nil {
		return rule.Role
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[authz] email rule lookup for %s failed: %v", canonical, err)
	}

	if domain := identity.Domain(canonical); domain != "" {
		if rule, err := r.Rules.FindDomainRule(ctx, domain); err == nil {
			return rule.Role
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[authz] domain rule lookup for %s failed: %v", domain, err)
		}
	}

	return models.RoleUser
}

// IsAllowed reports whether any rule admits rawEmail to the system at all;
// sign-in links are only sent to admitted identities. A store error counts
// as admitted — the identity then degrades to USER at session time instead
// of being locked out by an outage.
func (r *Resolver) IsAllowed(ctx context.Context, rawEmail string) bool {
	canonical := r.Norm.Normalize(rawEmail)

	_, err := r.Rules.FindEmailRule(ctx, canonical)
	if err == nil {
		return true
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[authz] allowlist email lookup for %s failed: %v", canonical, err)
		return true
	}

	domain := identity.Domain(canonical)
	if domain == "" {
		return false
	}
	_, err = r.Rules.FindDomainRule(ctx, domain)
	if err == nil {
		return true
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[authz] allowlist domain lookup for %s failed: %v", domain, err)
		return true
	}
	return false
}

// ResolvePermissions expands roleName into its granted key set. Unknown roles
// and lookup failures yield the empty set, fail-safe to no capabilities.
func (r *Resolver) ResolvePermissions(ctx context.Context, roleName string) permission.Set {
	role, err := r.Roles.GetRole(ctx, roleName)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[authz] role lookup for %s failed: %v", roleName, err)
		}
		return permission.Set{}
	}
	return permission.NewSet(role.PermissionKeys())
}
