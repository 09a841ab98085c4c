package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/patentvault/patentvault/models"
)

type createRuleRequest struct {
	Value       string `json:"value" binding:"required"`
	Kind        string `json:"kind" binding:"required"`
	Role        string `json:"role" binding:"required"`
	Description string `json:"description"`
}

// handleListRules returns the flat rule list, newest first.
func (s *Server) handleListRules(c *gin.Context) {
	rules, err := s.rules.ListRules(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rules"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

// handleGroupedRules returns rules grouped by value, with the role the
// resolver would actually pick marked per group.
func (s *Server) handleGroupedRules(c *gin.Context) {
	groups, err := s.rules.GroupedRules(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to group rules"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// handleCreateRule validates shape and role existence at the boundary, then
// inserts the rule and its alias twin. Both inserted rows are returned.
func (s *Server) handleCreateRule(c *gin.Context) {
	var req createRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value, kind and role are required"})
		return
	}

	kind := strings.ToUpper(strings.TrimSpace(req.Kind))
	if kind != models.RuleKindEmail && kind != models.RuleKindDomain {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be EMAIL or DOMAIN"})
		return
	}
	value := strings.ToLower(strings.TrimSpace(req.Value))
	if kind == models.RuleKindEmail && !strings.Contains(value, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "EMAIL rules need a full address"})
		return
	}
	if kind == models.RuleKindDomain && strings.Contains(value, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "DOMAIN rules take a bare domain"})
		return
	}

	// Rules may only point at roles that exist right now; resolution later
	// tolerates dangling roles, creation does not.
	if _, err := s.roles.GetRole(c.Request.Context(), req.Role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to validate role"})
		return
	}

	inserted, err := s.rules.CreateRule(c.Request.Context(), models.AccessRule{
		Value:       value,
		Kind:        kind,
		Role:        req.Role,
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create rule"})
		return
	}

	actor := currentContext(c)
	s.audit.Log(c.Request.Context(), requestMeta(c), actor.Canonical, models.ActionManageAccess, value, map[string]any{
		"op":   "create_rule",
		"kind": kind,
		"role": strings.ToUpper(strings.TrimSpace(req.Role)),
	})
	c.JSON(http.StatusCreated, gin.H{"rules": inserted})
}

// handleDeleteRule removes a rule and its alias twin.
func (s *Server) handleDeleteRule(c *gin.Context) {
	id := c.Param("id")
	if err := s.rules.DeleteRule(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "rule not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete rule"})
		return
	}

	actor := currentContext(c)
	s.audit.Log(c.Request.Context(), requestMeta(c), actor.Canonical, models.ActionManageAccess, id, map[string]any{
		"op": "delete_rule",
	})
	c.JSON(http.StatusOK, gin.H{"message": "rule deleted"})
}
