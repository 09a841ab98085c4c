package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/patentvault/patentvault/permission"
)

// NewRouter builds the gin engine with the full route table. Every route
// past /auth/* runs behind RequireAuth; mutating and sensitive routes are
// additionally gated on a single permission key each.
func (s *Server) NewRouter() *gin.Engine {
	if s.cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", s.handleHealth)

	auth := r.Group("/auth")
	{
		auth.POST("/login", s.handleLogin)
		auth.GET("/verify", s.handleVerify)
		auth.POST("/logout", s.RequireAuth(), s.handleLogout)
		auth.GET("/me", s.RequireAuth(), s.handleMe)
	}

	api := r.Group("/", s.RequireAuth())

	api.GET("/dashboard", s.RequirePermission(permission.ViewDashboard), s.handleDashboard)

	patents := api.Group("/patents")
	{
		patents.GET("", s.RequirePermission(permission.ViewList), s.handleListPatents)
		patents.GET("/:id", s.RequirePermission(permission.ViewList), s.handleGetPatent)
		patents.PUT("", s.RequirePermission(permission.EditPatent), s.handleUpsertPatent)
		patents.DELETE("/:id", s.RequirePermission(permission.DeletePatent), s.handleDeletePatent)
		patents.POST("/:id/notify", s.RequirePermission(permission.SendEmail), s.handleNotify)
	}

	api.GET("/export", s.RequirePermission(permission.ExportData), s.handleExport)
	api.POST("/import", s.RequirePermission(permission.ImportData), s.handleImport)
	api.POST("/ai/chat", s.RequirePermission(permission.AIChat), s.handleAIChat)

	access := api.Group("/access", s.RequirePermission(permission.ManageAccess))
	{
		access.GET("/rules", s.handleListRules)
		access.GET("/rules/grouped", s.handleGroupedRules)
		access.POST("/rules", s.handleCreateRule)
		access.DELETE("/rules/:id", s.handleDeleteRule)

		access.GET("/roles", s.handleListRoles)
		access.POST("/roles", s.handleCreateRole)
		access.PUT("/roles/:name/permissions", s.handleUpdateRolePermissions)
		access.POST("/roles/:name/rename", s.handleRenameRole)
		access.DELETE("/roles/:name", s.handleDeleteRole)
	}

	logs := api.Group("/logs", s.RequirePermission(permission.ViewLogs))
	{
		logs.GET("", s.handleListLogs)
		logs.GET("/email", s.handleListEmailLogs)
	}

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	status := gin.H{"status": "ok"}
	if s.mailer != nil {
		if err := s.mailer.Health(c.Request.Context()); err != nil {
			status["email"] = "unavailable"
		} else {
			status["email"] = string(s.mailer.ProviderType())
		}
	}
	c.JSON(http.StatusOK, status)
}
