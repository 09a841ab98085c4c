// Package server exposes the HTTP surface: passwordless authentication,
// access administration, and the permission-gated portfolio operations.
package server

import (
	"context"

	"github.com/patentvault/patentvault/auditlog"
	"github.com/patentvault/patentvault/authz"
	"github.com/patentvault/patentvault/email"
	"github.com/patentvault/patentvault/models"
	"github.com/patentvault/patentvault/session"
	"github.com/patentvault/patentvault/store"
)

// RuleAdminStore is the rule-store surface the admin handlers need.
type RuleAdminStore interface {
	CreateRule(ctx context.Context, rule models.AccessRule) ([]models.AccessRule, error)
	DeleteRule(ctx context.Context, id string) error
	ListRules(ctx context.Context) ([]models.AccessRule, error)
	GroupedRules(ctx context.Context) ([]models.RuleGroup, error)
}

// RoleAdminStore is the role-registry surface the admin handlers need.
type RoleAdminStore interface {
	GetRole(ctx context.Context, name string) (*models.Role, error)
	ListRoles(ctx context.Context) ([]models.Role, error)
	CreateRole(ctx context.Context, name string, perms []string, description string) (*models.Role, error)
	UpdatePermissions(ctx context.Context, name string, perms []string) error
	RenameRole(ctx context.Context, oldName, newName string) error
	DeleteRole(ctx context.Context, name string) error
}

// PatentStore is the thin portfolio-record collaborator.
type PatentStore interface {
	ListPatents(ctx context.Context) ([]models.Patent, error)
	GetPatent(ctx context.Context, id string) (*models.Patent, error)
	UpsertPatent(ctx context.Context, p models.Patent) (*models.Patent, error)
	BulkUpsert(ctx context.Context, patents []models.Patent) (int, error)
	DeletePatent(ctx context.Context, id string) error
}

// ActionLogReader lists audit entries for the view-logs surface.
type ActionLogReader interface {
	List(ctx context.Context, f store.ActionLogFilter) ([]models.ActionLogEntry, error)
}

// EmailLogStore records and lists notification attempts.
type EmailLogStore interface {
	Append(ctx context.Context, entry models.EmailLog) error
	List(ctx context.Context, limit int) ([]models.EmailLog, error)
}

// TextGenerator is the external AI collaborator. The service only forwards
// prompts; the integration itself lives outside this repo.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Deps collects everything a Server needs. All stores are interfaces so the
// handler tests can substitute in-memory fakes.
type Deps struct {
	Config     *AppConfig
	Tokens     *TokenService
	Resolver   *authz.Resolver
	Rules      RuleAdminStore
	Roles      RoleAdminStore
	Patents    PatentStore
	ActionLogs ActionLogReader
	EmailLogs  EmailLogStore
	Audit      *auditlog.Logger
	Sessions   session.Store
	Mailer     email.Sender
	AI         TextGenerator // optional
}

// Server carries the wired dependencies for all handlers.
type Server struct {
	cfg        *AppConfig
	tokens     *TokenService
	resolver   *authz.Resolver
	rules      RuleAdminStore
	roles      RoleAdminStore
	patents    PatentStore
	actionLogs ActionLogReader
	emailLogs  EmailLogStore
	audit      *auditlog.Logger
	sessions   session.Store
	mailer     email.Sender
	ai         TextGenerator
}

func NewServer(d Deps) *Server {
	return &Server{
		cfg:        d.Config,
		tokens:     d.Tokens,
		resolver:   d.Resolver,
		rules:      d.Rules,
		roles:      d.Roles,
		patents:    d.Patents,
		actionLogs: d.ActionLogs,
		emailLogs:  d.EmailLogs,
		audit:      d.Audit,
		sessions:   d.Sessions,
		mailer:     d.Mailer,
		ai:         d.AI,
	}
}
