package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/patentvault/patentvault/store"
)

// handleListLogs returns audit entries, newest first, with optional actor and
// action filters.
func (s *Server) handleListLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := s.actionLogs.List(c.Request.Context(), store.ActionLogFilter{
		Actor:  c.Query("actor"),
		Action: c.Query("action"),
		Limit:  limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": entries})
}

// handleListEmailLogs returns recorded notification attempts, newest first.
func (s *Server) handleListEmailLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := s.emailLogs.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list email logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": entries})
}
