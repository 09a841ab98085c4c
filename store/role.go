package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/patentvault/patentvault/models"
)

// RoleStore manages the role registry. Role names are uppercased on every
// write and lookup; the built-in ADMIN and USER roles are protected from
// rename and delete.
type RoleStore struct{ DB *gorm.DB }

func NewRoleStore(db *gorm.DB) *RoleStore { return &RoleStore{DB: db} }

// GetRole fetches a role by name (case-insensitive).
func (s *RoleStore) GetRole(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := s.DB.WithContext(ctx).
		Where("name = ?", strings.ToUpper(strings.TrimSpace(name))).
		First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// ListRoles returns all roles ordered by name.
func (s *RoleStore) ListRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	err := s.DB.WithContext(ctx).Order("name ASC").Find(&roles).Error
	return roles, err
}

// CreateRole inserts a new role. Fails with ErrDuplicateRole when a role of
// the same name already exists.
func (s *RoleStore) CreateRole(ctx context.Context, name string, perms []string, description string) (*models.Role, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return nil, gorm.ErrInvalidData
	}
	role := models.Role{
		Name:        name,
		Permissions: models.EncodePermissions(perms),
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Role
		err := tx.Where("name = ?", name).First(&existing).Error
		if err == nil {
			return ErrDuplicateRole
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&role).Error
	})
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// UpdatePermissions replaces the role's permission set wholesale.
func (s *RoleStore) UpdatePermissions(ctx context.Context, name string, perms []string) error {
	name = strings.ToUpper(strings.TrimSpace(name))
	res := s.DB.WithContext(ctx).Model(&models.Role{}).
		Where("name = ?", name).
		Update("permissions", models.EncodePermissions(perms))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RenameRole renames a custom role. The new row is created, every access
// rule referencing the old name is migrated, and the old row is deleted — all
// inside one transaction, so a partial failure can never leave both or
// neither name resolvable.
func (s *RoleStore) RenameRole(ctx context.Context, oldName, newName string) error {
	oldName = strings.ToUpper(strings.TrimSpace(oldName))
	newName = strings.ToUpper(strings.TrimSpace(newName))
	if newName == "" || oldName == newName {
		return gorm.ErrInvalidData
	}
	if models.IsBuiltIn(oldName) || models.IsBuiltIn(newName) {
		return ErrProtectedRole
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old models.Role
		if err := tx.Where("name = ?", oldName).First(&old).Error; err != nil {
			return err
		}
		var clash models.Role
		err := tx.Where("name = ?", newName).First(&clash).Error
		if err == nil {
			return ErrDuplicateRole
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		next := models.Role{
			Name:        newName,
			Permissions: old.Permissions,
			Description: old.Description,
			CreatedAt:   time.Now().UTC(),
		}
		if err := tx.Create(&next).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.AccessRule{}).
			Where("role = ?", oldName).
			Update("role", newName).Error; err != nil {
			return err
		}
		return tx.Where("name = ?", oldName).Delete(&models.Role{}).Error
	})
}

// DeleteRole removes a custom role. Deletion is blocked (not cascaded) while
// access rules still reference the role.
func (s *RoleStore) DeleteRole(ctx context.Context, name string) error {
	name = strings.ToUpper(strings.TrimSpace(name))
	if models.IsBuiltIn(name) {
		return ErrProtectedRole
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.Where("name = ?", name).First(&role).Error; err != nil {
			return err
		}
		var refs int64
		if err := tx.Model(&models.AccessRule{}).Where("role = ?", name).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrRoleInUse
		}
		return tx.Where("name = ?", name).Delete(&models.Role{}).Error
	})
}
