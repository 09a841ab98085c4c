package server

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/patentvault/patentvault/email"
	"github.com/patentvault/patentvault/models"
)

// handleListPatents returns the full portfolio.
func (s *Server) handleListPatents(c *gin.Context) {
	patents, err := s.patents.ListPatents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list patents"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"patents": patents})
}

func (s *Server) handleGetPatent(c *gin.Context) {
	p, err := s.patents.GetPatent(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "patent not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load patent"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"patent": p})
}

// handleUpsertPatent creates or replaces one record.
func (s *Server) handleUpsertPatent(c *gin.Context) {
	var p models.Patent
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid patent payload"})
		return
	}
	if strings.TrimSpace(p.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	saved, err := s.patents.UpsertPatent(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save patent"})
		return
	}

	actor := currentContext(c)
	s.audit.Log(c.Request.Context(), requestMeta(c), actor.Canonical, models.ActionEditPatent, saved.ID, map[string]any{
		"name": saved.Name,
	})
	c.JSON(http.StatusOK, gin.H{"patent": saved})
}

func (s *Server) handleDeletePatent(c *gin.Context) {
	id := c.Param("id")
	if err := s.patents.DeletePatent(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "patent not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete patent"})
		return
	}

	actor := currentContext(c)
	s.audit.Log(c.Request.Context(), requestMeta(c), actor.Canonical, models.ActionDeletePatent, id, nil)
	c.JSON(http.StatusOK, gin.H{"message": "patent deleted"})
}

// handleDashboard summarises the portfolio: counts by status plus annuities
// falling due within 90 days.
func (s *Server) handleDashboard(c *gin.Context) {
	patents, err := s.patents.ListPatents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load portfolio"})
		return
	}

	byStatus := map[string]int{}
	expiring := 0
	horizon := time.Now().UTC().AddDate(0, 0, 90)
	for _, p := range patents {
		byStatus[p.Status]++
		if due, err := time.Parse("2006-01-02", p.AnnuityDate); err == nil {
			if due.Before(horizon) && due.After(time.Now().UTC().AddDate(0, 0, -1)) {
				expiring++
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total":         len(patents),
		"by_status":     byStatus,
		"expiring_soon": expiring,
		"horizon_days":  90,
	})
}

// handleExport streams the whole portfolio as JSON.
func (s *Server) handleExport(c *gin.Context) {
	patents, err := s.patents.ListPatents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export"})
		return
	}

	actor := currentContext(c)
	s.audit.Log(c.Request.Context(), requestMeta(c), actor.Canonical, models.ActionExportData, "", map[string]any{
		"count": len(patents),
	})
	c.Header("Content-Disposition", `attachment; filename="patents.json"`)
	c.JSON(http.StatusOK, gin.H{"patents": patents})
}

type importRequest struct {
	Patents []models.Patent `json:"patents" binding:"required"`
}

// handleImport bulk-upserts pre-parsed records. File parsing happens
// client-side; the service only takes structured rows.
func (s *Server) handleImport(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "patents array is required"})
		return
	}

	n, err := s.patents.BulkUpsert(c.Request.Context(), req.Patents)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to import"})
		return
	}

	actor := currentContext(c)
	s.audit.Log(c.Request.Context(), requestMeta(c), actor.Canonical, models.ActionImportData, "", map[string]any{
		"count": n,
	})
	c.JSON(http.StatusOK, gin.H{"imported": n})
}

type notifyRequest struct {
	Recipient string `json:"recipient" binding:"required"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// handleNotify sends an annuity reminder for one patent and records the
// attempt in the email log, success or not.
func (s *Server) handleNotify(c *gin.Context) {
	p, err := s.patents.GetPatent(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "patent not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load patent"})
		return
	}

	var req notifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipient is required"})
		return
	}
	subject := req.Subject
	if subject == "" {
		subject = "Annuity reminder: " + p.Name
	}
	body := req.Body
	if body == "" {
		body = "The annuity for " + p.Name + " is due on " + p.AnnuityDate + "."
	}

	sendErr := s.mailer.SendNotification(c.Request.Context(), email.NotificationData{
		To:       req.Recipient,
		Subject:  subject,
		TextBody: body,
		FromName: "PatentVault",
	})

	entry := models.EmailLog{
		ID:         models.NewID(),
		PatentName: p.Name,
		Recipient:  req.Recipient,
		Subject:    subject,
		Status:     models.EmailStatusSuccess,
		CreatedAt:  time.Now().UTC(),
	}
	if sendErr != nil {
		entry.Status = models.EmailStatusFailed
		entry.ErrorMsg = sendErr.Error()
	}
	if err := s.emailLogs.Append(c.Request.Context(), entry); err != nil {
		// The send already happened; losing the log row must not fail the call.
		log.Printf("[EMAIL] failed to record notification log: %v", err)
	}

	actor := currentContext(c)
	s.audit.Log(c.Request.Context(), requestMeta(c), actor.Canonical, models.ActionSendEmail, p.ID, map[string]any{
		"recipient": req.Recipient,
		"status":    entry.Status,
	})

	if sendErr != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to send notification", "log": entry})
		return
	}
	c.JSON(http.StatusOK, gin.H{"log": entry})
}

type chatRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// handleAIChat forwards a prompt to the configured text generator.
func (s *Server) handleAIChat(c *gin.Context) {
	if s.ai == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "ai assistant is not configured"})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	answer, err := s.ai.GenerateText(c.Request.Context(), req.Prompt)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "ai assistant unavailable"})
		return
	}

	actor := currentContext(c)
	s.audit.Log(c.Request.Context(), requestMeta(c), actor.Canonical, models.ActionAIChat, "", nil)
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
