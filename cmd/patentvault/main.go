package main

import (
	"context"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/patentvault/patentvault/auditlog"
	"github.com/patentvault/patentvault/authz"
	"github.com/patentvault/patentvault/email"
	"github.com/patentvault/patentvault/geoip"
	"github.com/patentvault/patentvault/identity"
	"github.com/patentvault/patentvault/migrate"
	"github.com/patentvault/patentvault/seed"
	"github.com/patentvault/patentvault/server"
	"github.com/patentvault/patentvault/session"
	"github.com/patentvault/patentvault/store"
)

func main() {
	cfg := server.GetConfig()

	if err := migrate.Run(migrate.Options{
		Driver:  cfg.Database.Driver,
		DSN:     cfg.Database.DSN,
		Command: "up",
	}); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	// The service itself runs on postgres; the sqlite migration driver exists
	// for local tooling only.
	if cfg.Database.Driver != "postgres" {
		log.Fatalf("unsupported database driver %q", cfg.Database.Driver)
	}
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	norm := identity.NewNormalizer(cfg.Identity.Aliases)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := seed.Run(ctx, db, norm, seed.Options{
		BootstrapAdminEmail: cfg.Seed.BootstrapAdminEmail,
		SamplePatents:       cfg.Seed.SamplePatents,
	}); err != nil {
		cancel()
		log.Fatalf("seed failed: %v", err)
	}
	cancel()

	rules := store.NewRuleStore(db, norm)
	roles := store.NewRoleStore(db)
	patents := store.NewPatentStore(db)
	actionLogs := store.NewActionLogStore(db)
	emailLogs := store.NewEmailLogStore(db)

	var enricher auditlog.Enricher
	if cfg.Audit.GeoIP {
		enricher = geoip.NewClient()
	}
	audit, err := auditlog.NewLogger(actionLogs, enricher, cfg.ThrottleWindow())
	if err != nil {
		log.Fatalf("audit logger init failed: %v", err)
	}
	defer audit.Close()

	// Sessions: prefer Valkey when configured, else in-process memory.
	var sessions session.Store
	if cfg.Session.Backend == "valkey" {
		vs, err := session.NewValkeyStore(cfg.Session.ValkeyAddr, cfg.Session.ValkeyPrefix)
		if err != nil {
			log.Printf("valkey not available (%v), falling back to memory sessions", err)
			sessions = session.NewMemoryStore()
		} else {
			log.Printf("using valkey session store at %s", cfg.Session.ValkeyAddr)
			sessions = vs
		}
	} else {
		sessions = session.NewMemoryStore()
	}

	mailer, err := email.New(cfg.Email)
	if err != nil {
		log.Fatalf("email sender init failed: %v", err)
	}

	tokens, err := server.NewTokenService(cfg.Auth.JWTSecret, "patentvault")
	if err != nil {
		log.Fatalf("token service init failed: %v", err)
	}

	srv := server.NewServer(server.Deps{
		Config:     cfg,
		Tokens:     tokens,
		Resolver:   authz.NewResolver(rules, roles, norm),
		Rules:      rules,
		Roles:      roles,
		Patents:    patents,
		ActionLogs: actionLogs,
		EmailLogs:  emailLogs,
		Audit:      audit,
		Sessions:   sessions,
		Mailer:     mailer,
	})

	engine := srv.NewRouter()
	log.Printf("listening on %s (env=%s, email=%s)", cfg.Server.Addr, cfg.Env, mailer.ProviderType())
	if err := engine.Run(cfg.Server.Addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
