package authz

import (
	"context"

	"github.com/patentvault/patentvault/permission"
)

// Context is the session-scoped authorization state, produced once at login
// and threaded explicitly through every operation that needs it. Permission
// grants are cached for the session lifetime; administration changes take
// effect at the next login.
type Context struct {
	Identity  string // email as authenticated
	Canonical string // identity after alias normalization
	Role      string // effective role, first-match
	Granted   permission.Set
	SessionID string
}

// Allowed is the authorization gate consulted before every sensitive action.
func (a Context) Allowed(required permission.Key) bool {
	return a.Granted.Has(required)
}

// NewSessionContext resolves rawEmail into a complete authorization context.
func (r *Resolver) NewSessionContext(ctx context.Context, rawEmail, sessionID string) Context {
	canonical := r.Norm.Normalize(rawEmail)
	role := r.ResolveRole(ctx, rawEmail)
	return Context{
		Identity:  rawEmail,
		Canonical: canonical,
		Role:      role,
		Granted:   r.ResolvePermissions(ctx, role),
		SessionID: sessionID,
	}
}
