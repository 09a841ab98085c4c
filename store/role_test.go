package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/patentvault/patentvault/models"
)

func uniqueRoleName(prefix string) string {
	return strings.ToUpper(prefix + "_" + models.NewID()[:8])
}

func cleanupRole(t *testing.T, s *RoleStore, name string) {
	t.Cleanup(func() {
		_ = s.DB.Where("name = ?", strings.ToUpper(name)).Delete(&models.Role{}).Error
	})
}

func TestRoleStore_CreateAndGet(t *testing.T) {
	db := getTestGormDB(t)
	roles := NewRoleStore(db)
	ctx := context.Background()

	name := uniqueRoleName("reviewer")
	created, err := roles.CreateRole(ctx, name, []string{"view-list", "view-logs"}, "read access")
	if err != nil {
		t.Fatalf("CreateRole: %v", err)
	}
	cleanupRole(t, roles, name)

	got, err := roles.GetRole(ctx, strings.ToLower(name))
	if err != nil {
		t.Fatalf("GetRole: %v", err)
	}
	if got.Name != created.Name {
		t.Fatalf("name = %q, want %q", got.Name, created.Name)
	}
	keys := got.PermissionKeys()
	if len(keys) != 2 || keys[0] != "view-list" {
		t.Fatalf("permissions = %v", keys)
	}
}

func TestRoleStore_CreateDuplicate(t *testing.T) {
	db := getTestGormDB(t)
	roles := NewRoleStore(db)
	ctx := context.Background()

	name := uniqueRoleName("dup")
	if _, err := roles.CreateRole(ctx, name, nil, ""); err != nil {
		t.Fatal(err)
	}
	cleanupRole(t, roles, name)

	if _, err := roles.CreateRole(ctx, name, nil, ""); !errors.Is(err, ErrDuplicateRole) {
		t.Fatalf("err = %v, want ErrDuplicateRole", err)
	}
}

func TestRoleStore_BuiltInsAreProtected(t *testing.T) {
	db := getTestGormDB(t)
	roles := NewRoleStore(db)
	ctx := context.Background()

	if err := roles.DeleteRole(ctx, models.RoleAdmin); !errors.Is(err, ErrProtectedRole) {
		t.Fatalf("delete ADMIN err = %v, want ErrProtectedRole", err)
	}
	if err := roles.RenameRole(ctx, models.RoleUser, "MEMBER"); !errors.Is(err, ErrProtectedRole) {
		t.Fatalf("rename USER err = %v, want ErrProtectedRole", err)
	}
	if err := roles.RenameRole(ctx, "CUSTOM", models.RoleAdmin); !errors.Is(err, ErrProtectedRole) {
		t.Fatalf("rename to ADMIN err = %v, want ErrProtectedRole", err)
	}
}

func TestRoleStore_RenameMigratesRules(t *testing.T) {
	db := getTestGormDB(t)
	roles := NewRoleStore(db)
	rules, _ := newTestRuleStore(t)
	ctx := context.Background()

	oldName := uniqueRoleName("legal")
	newName := uniqueRoleName("counsel")
	if _, err := roles.CreateRole(ctx, oldName, []string{"view-list"}, ""); err != nil {
		t.Fatal(err)
	}
	cleanupRole(t, roles, oldName)
	cleanupRole(t, roles, newName)

	inserted, err := rules.CreateRule(ctx, models.AccessRule{
		Value: "rename-" + models.NewID()[:8] + "@elsewhere.dev",
		Kind:  models.RuleKindEmail,
		Role:  oldName,
	})
	if err != nil {
		t.Fatal(err)
	}
	cleanupRules(t, rules, inserted)

	if err := roles.RenameRole(ctx, oldName, newName); err != nil {
		t.Fatalf("RenameRole: %v", err)
	}

	// The old name must be gone and the rule must follow the new name.
	if _, err := roles.GetRole(ctx, oldName); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("old role still resolvable, err = %v", err)
	}
	migrated, err := roles.GetRole(ctx, newName)
	if err != nil {
		t.Fatalf("new role missing: %v", err)
	}
	if keys := migrated.PermissionKeys(); len(keys) != 1 || keys[0] != "view-list" {
		t.Fatalf("permissions not carried: %v", keys)
	}

	var count int64
	if err := db.Model(&models.AccessRule{}).
		Where("id = ? AND role = ?", inserted[0].ID, newName).
		Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatal("access rule was not migrated to the new role name")
	}
}

func TestRoleStore_DeleteBlockedWhileReferenced(t *testing.T) {
	db := getTestGormDB(t)
	roles := NewRoleStore(db)
	rules, _ := newTestRuleStore(t)
	ctx := context.Background()

	name := uniqueRoleName("intern")
	if _, err := roles.CreateRole(ctx, name, nil, ""); err != nil {
		t.Fatal(err)
	}
	cleanupRole(t, roles, name)

	inserted, err := rules.CreateRule(ctx, models.AccessRule{
		Value: "blocked-" + models.NewID()[:8] + "@elsewhere.dev",
		Kind:  models.RuleKindEmail,
		Role:  name,
	})
	if err != nil {
		t.Fatal(err)
	}
	cleanupRules(t, rules, inserted)

	if err := roles.DeleteRole(ctx, name); !errors.Is(err, ErrRoleInUse) {
		t.Fatalf("err = %v, want ErrRoleInUse", err)
	}

	// Remove the reference; the delete must then succeed.
	if err := rules.DeleteRule(ctx, inserted[0].ID); err != nil {
		t.Fatal(err)
	}
	if err := roles.DeleteRole(ctx, name); err != nil {
		t.Fatalf("delete after unreferencing: %v", err)
	}
}

func TestRoleStore_UpdatePermissionsUnknownRole(t *testing.T) {
	db := getTestGormDB(t)
	roles := NewRoleStore(db)

	err := roles.UpdatePermissions(context.Background(), uniqueRoleName("ghost"), []string{"view-list"})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
}
