package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/patentvault/patentvault/models"
	"github.com/patentvault/patentvault/permission"
	"github.com/patentvault/patentvault/store"
)

type createRoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Permissions []string `json:"permissions"`
	Description string   `json:"description"`
}

type updateRolePermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

type renameRoleRequest struct {
	NewName string `json:"new_name" binding:"required"`
}

// handleListRoles returns the full role registry.
func (s *Server) handleListRoles(c *gin.Context) {
	roles, err := s.roles.ListRoles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list roles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

// handleCreateRole registers a new role. Unknown permission keys are rejected
// here, before the registry is touched.
func (s *Server) handleCreateRole(c *gin.Context) {
	var req createRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if bad, ok := invalidPermissionKey(req.Permissions); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown permission key: " + bad})
		return
	}

	role, err := s.roles.CreateRole(c.Request.Context(), req.Name, req.Permissions, req.Description)
	if err != nil {
		s.writeRoleError(c, err, "failed to create role")
		return
	}

	actor := currentContext(c)
	s.audit.Log(c.Request.Context(), requestMeta(c), actor.Canonical, models.ActionManageAccess, role.Name, map[string]any{
		"op": "create_role",
	})
	c.JSON(http.StatusCreated, gin.H{"role": role})
}

// handleUpdateRolePermissions replaces a role's grant set wholesale.
func (s *Server) handleUpdateRolePermissions(c *gin.Context) {
	name := c.Param("name")
	var req updateRolePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if bad, ok := invalidPermissionKey(req.Permissions); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown permission key: " + bad})
		return
	}

	if err := s.roles.UpdatePermissions(c.Request.Context(), name, req.Permissions); err != nil {
		s.writeRoleError(c, err, "failed to update role")
		return
	}

	actor := currentContext(c)
	s.audit.Log(c.Request.Context(), requestMeta(c), actor.Canonical, models.ActionManageAccess, strings.ToUpper(strings.TrimSpace(name)), map[string]any{
		"op":          "update_role_permissions",
		"permissions": req.Permissions,
	})
	c.JSON(http.StatusOK, gin.H{"message": "role updated"})
}

// handleRenameRole renames a role and migrates every rule that points at it,
// atomically. Sessions issued under the old name keep their cached grants
// until they expire.
func (s *Server) handleRenameRole(c *gin.Context) {
	name := c.Param("name")
	var req renameRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "new_name is required"})
		return
	}

	if err := s.roles.RenameRole(c.Request.Context(), name, req.NewName); err != nil {
		s.writeRoleError(c, err, "failed to rename role")
		return
	}

	actor := currentContext(c)
	s.audit.Log(c.Request.Context(), requestMeta(c), actor.Canonical, models.ActionManageAccess, strings.ToUpper(strings.TrimSpace(name)), map[string]any{
		"op":       "rename_role",
		"new_name": strings.ToUpper(strings.TrimSpace(req.NewName)),
	})
	c.JSON(http.StatusOK, gin.H{"message": "role renamed"})
}

// handleDeleteRole removes an unreferenced, non-built-in role.
func (s *Server) handleDeleteRole(c *gin.Context) {
	name := c.Param("name")
	if err := s.roles.DeleteRole(c.Request.Context(), name); err != nil {
		s.writeRoleError(c, err, "failed to delete role")
		return
	}

	actor := currentContext(c)
	s.audit.Log(c.Request.Context(), requestMeta(c), actor.Canonical, models.ActionManageAccess, strings.ToUpper(strings.TrimSpace(name)), map[string]any{
		"op": "delete_role",
	})
	c.JSON(http.StatusOK, gin.H{"message": "role deleted"})
}

func (s *Server) writeRoleError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrDuplicateRole):
		c.JSON(http.StatusConflict, gin.H{"error": "role already exists"})
	case errors.Is(err, store.ErrProtectedRole):
		c.JSON(http.StatusForbidden, gin.H{"error": "built-in roles cannot be changed"})
	case errors.Is(err, store.ErrRoleInUse):
		c.JSON(http.StatusConflict, gin.H{"error": "role is referenced by access rules"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "role not found"})
	case errors.Is(err, gorm.ErrInvalidData):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role name"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func invalidPermissionKey(keys []string) (string, bool) {
	for _, k := range keys {
		if !permission.IsValid(permission.Key(k)) {
			return k, false
		}
	}
	return "", true
}
