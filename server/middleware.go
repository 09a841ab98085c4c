package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/patentvault/patentvault/auditlog"
	"github.com/patentvault/patentvault/authz"
	"github.com/patentvault/patentvault/geoip"
	"github.com/patentvault/patentvault/permission"
	"github.com/patentvault/patentvault/session"
)

const authzContextKey = "patentvault.authz"

// RequireAuth validates the Bearer session token, checks that the session is
// still live in the session store, and stashes the caller's authorization
// context for the handlers downstream.
func (s *Server) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims, err := s.tokens.ParseSessionToken(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
			return
		}

		// Revocation check: the token is only good while the session record
		// it names is still present.
		if _, err := s.sessions.Get(c.Request.Context(), claims.ID); err != nil {
			msg := "session lookup failed"
			if errors.Is(err, session.ErrNotFound) {
				msg = "session revoked"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		c.Set(authzContextKey, &authz.Context{
			Identity:  claims.Email,
			Canonical: claims.Canonical,
			Role:      claims.Role,
			Granted:   permission.NewSet(claims.Permissions),
			SessionID: claims.ID,
		})
		c.Next()
	}
}

// RequirePermission gates a route on a single permission key. Missing keys
// terminate with 403 before the handler runs.
func (s *Server) RequirePermission(key permission.Key) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := currentContext(c)
		if actor == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		if !actor.Allowed(key) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission_denied"})
			return
		}
		c.Next()
	}
}

func currentContext(c *gin.Context) *authz.Context {
	v, ok := c.Get(authzContextKey)
	if !ok {
		return nil
	}
	actor, _ := v.(*authz.Context)
	return actor
}

// requestMeta captures the client address and user agent for audit
// enrichment.
func requestMeta(c *gin.Context) auditlog.Meta {
	return auditlog.Meta{
		ClientIP:  geoip.ClientIP(c.Request),
		UserAgent: c.Request.UserAgent(),
	}
}
