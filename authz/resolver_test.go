package authz

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/patentvault/patentvault/identity"
	"github.com/patentvault/patentvault/models"
	"github.com/patentvault/patentvault/permission"
)

type fakeRules struct {
	email  map[string]string // canonical value -> role
	domain map[string]string
	err    error
}

func (f *fakeRules) FindEmailRule(_ context.Context, value string) (*models.AccessRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	if role, ok := f.email[value]; ok {
		return &models.AccessRule{Value: value, Kind: models.RuleKindEmail, Role: role}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRules) FindDomainRule(_ context.Context, domain string) (*models.AccessRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	if role, ok := f.domain[domain]; ok {
		return &models.AccessRule{Value: domain, Kind: models.RuleKindDomain, Role: role}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeRoles struct {
	roles map[string][]string
	err   error
}

func (f *fakeRoles) GetRole(_ context.Context, name string) (*models.Role, error) {
	if f.err != nil {
		return nil, f.err
	}
	if perms, ok := f.roles[name]; ok {
		return &models.Role{Name: name, Permissions: models.EncodePermissions(perms)}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func testResolver(rules *fakeRules, roles *fakeRoles) *Resolver {
	norm := identity.NewNormalizer([]identity.AliasPair{
		{Canonical: "co-a.com", Alias: "co-b.com"},
	})
	return NewResolver(rules, roles, norm)
}

func TestResolveRole_EmailBeatsDomain(t *testing.T) {
	r := testResolver(&fakeRules{
		email:  map[string]string{"alice@co-a.com": "ADMIN"},
		domain: map[string]string{"co-a.com": "USER"},
	}, &fakeRoles{})

	if got := r.ResolveRole(context.Background(), "alice@co-a.com"); got != "ADMIN" {
		t.Fatalf("expected ADMIN, got %s", got)
	}
}

func TestResolveRole_DomainFallback(t *testing.T) {
	r := testResolver(&fakeRules{
		email:  map[string]string{},
		domain: map[string]string{"co-a.com": "REVIEWER"},
	}, &fakeRoles{})

	if got := r.ResolveRole(context.Background(), "bob@co-a.com"); got != "REVIEWER" {
		t.Fatalf("expected REVIEWER, got %s", got)
	}
}

func TestResolveRole_DefaultsToUser(t *testing.T) {
	r := testResolver(&fakeRules{}, &fakeRoles{})
	if got := r.ResolveRole(context.Background(), "nobody@elsewhere.org"); got != models.RoleUser {
		t.Fatalf("expected USER, got %s", got)
	}
}

func TestResolveRole_CanonicalizesAliasBeforeLookup(t *testing.T) {
	r := testResolver(&fakeRules{
		email: map[string]string{"alice@co-a.com": "ADMIN"},
	}, &fakeRoles{})

	// Mixed case and the alias domain must both hit the canonical rule.
	if got := r.ResolveRole(context.Background(), "Alice@CO-B.com"); got != "ADMIN" {
		t.Fatalf("expected ADMIN via alias, got %s", got)
	}
}

func TestResolveRole_StoreErrorFallsThroughToUser(t *testing.T) {
	r := testResolver(&fakeRules{err: errors.New("store unreachable")}, &fakeRoles{})
	if got := r.ResolveRole(context.Background(), "alice@co-a.com"); got != models.RoleUser {
		t.Fatalf("expected fail-safe USER, got %s", got)
	}
}

func TestResolvePermissions_RoundTrip(t *testing.T) {
	r := testResolver(&fakeRules{}, &fakeRoles{
		roles: map[string][]string{"USER": {"view-dashboard", "view-list"}},
	})
	set := r.ResolvePermissions(context.Background(), "USER")
	if !set.Has(permission.ViewDashboard) || !set.Has(permission.ViewList) {
		t.Fatal("expected both seeded keys to be granted")
	}
	if set.Has(permission.ManageAccess) {
		t.Fatal("manage-access must not be granted")
	}
}

func TestResolvePermissions_UnknownRoleEmptySet(t *testing.T) {
	r := testResolver(&fakeRules{}, &fakeRoles{})
	set := r.ResolvePermissions(context.Background(), "GHOST")
	if len(set) != 0 {
		t.Fatalf("expected empty set, got %v", set.Keys())
	}
}

func TestResolvePermissions_StoreErrorEmptySet(t *testing.T) {
	r := testResolver(&fakeRules{}, &fakeRoles{err: errors.New("down")})
	set := r.ResolvePermissions(context.Background(), "ADMIN")
	if len(set) != 0 {
		t.Fatalf("expected empty set on lookup failure, got %v", set.Keys())
	}
}

func TestNewSessionContext(t *testing.T) {
	r := testResolver(&fakeRules{
		email: map[string]string{"alice@co-a.com": "ADMIN"},
	}, &fakeRoles{
		roles: map[string][]string{"ADMIN": {"manage-access"}},
	})

	ac := r.NewSessionContext(context.Background(), "Alice@CO-B.com", "sess-1")
	if ac.Canonical != "alice@co-a.com" {
		t.Fatalf("expected canonical alice@co-a.com, got %s", ac.Canonical)
	}
	if ac.Role != "ADMIN" {
		t.Fatalf("expected ADMIN, got %s", ac.Role)
	}
	if !ac.Allowed(permission.ManageAccess) {
		t.Fatal("expected manage-access to be allowed")
	}
	if ac.Allowed(permission.DeletePatent) {
		t.Fatal("delete-patent must not be allowed")
	}
}
