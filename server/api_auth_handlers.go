package server

import (
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/patentvault/patentvault/email"
	"github.com/patentvault/patentvault/models"
	"github.com/patentvault/patentvault/session"
)

type loginRequest struct {
	Email string `json:"email"`
}

type sessionResponse struct {
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
}

// handleLogin starts the passwordless flow: a signed short-lived link is
// emailed to the address, provided a rule admits it. With a dev bypass email
// configured, an empty request body signs that identity in directly.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	// An empty body is legitimate in dev bypass mode, so bind errors are
	// only fatal when a body was actually supplied.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	if req.Email == "" {
		if s.cfg.Auth.DevBypassEmail == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
			return
		}
		resp, err := s.establishSession(c, s.cfg.Auth.DevBypassEmail)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to establish session"})
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	if !s.resolver.IsAllowed(c.Request.Context(), req.Email) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access not configured for this email"})
		return
	}

	linkToken, err := s.tokens.IssueLinkToken(req.Email, s.cfg.LinkTTL())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue sign-in link"})
		return
	}

	link := s.cfg.Auth.BaseURL + "/auth/verify?token=" + url.QueryEscape(linkToken)
	err = s.mailer.SendLoginLink(c.Request.Context(), email.LoginLinkData{
		To:           req.Email,
		Link:         link,
		ExpiresInMin: s.cfg.Auth.LinkTTLMin,
		AppName:      "PatentVault",
	})
	if err != nil {
		log.Printf("[AUTH] failed to send login link to %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send sign-in link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "sign-in link sent"})
}

// handleVerify exchanges a valid link token for a session token. Role and
// permissions are resolved here, once, and cached in the session.
func (s *Server) handleVerify(c *gin.Context) {
	raw := c.Query("token")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	email, err := s.tokens.ParseLinkToken(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired sign-in link"})
		return
	}

	resp, err := s.establishSession(c, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to establish session"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) establishSession(c *gin.Context, email string) (*sessionResponse, error) {
	ctx := c.Request.Context()
	sessionID := models.NewID()
	actor := s.resolver.NewSessionContext(ctx, email, sessionID)

	// Sign first, store second: a signing failure leaves no session record
	// behind, and a store failure discards the unreturned token.
	perms := actor.Granted.Keys()
	token, expiresAt, err := s.tokens.IssueSessionToken(sessionID, actor.Identity, actor.Canonical, actor.Role, perms, s.cfg.SessionTTL())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.sessions.Put(ctx, session.Record{
		ID:        sessionID,
		Email:     actor.Canonical,
		Role:      actor.Role,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log(ctx, requestMeta(c), actor.Canonical, models.ActionLogin, "", map[string]any{
		"role": actor.Role,
	})

	return &sessionResponse{
		Token:       token,
		ExpiresAt:   expiresAt,
		Email:       actor.Canonical,
		Role:        actor.Role,
		Permissions: perms,
	}, nil
}

// handleLogout revokes the current session. The token stops working at the
// next request even though it has not expired.
func (s *Server) handleLogout(c *gin.Context) {
	actor := currentContext(c)
	if err := s.sessions.Revoke(c.Request.Context(), actor.SessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke session"})
		return
	}
	s.audit.Log(c.Request.Context(), requestMeta(c), actor.Canonical, models.ActionLogout, "", nil)
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// handleMe reports the caller's resolved identity, role and grants.
func (s *Server) handleMe(c *gin.Context) {
	actor := currentContext(c)
	c.JSON(http.StatusOK, gin.H{
		"email":       actor.Identity,
		"canonical":   actor.Canonical,
		"role":        actor.Role,
		"permissions": actor.Granted.Keys(),
	})
}
