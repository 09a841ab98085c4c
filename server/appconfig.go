package server

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/patentvault/patentvault/email"
	"github.com/patentvault/patentvault/identity"
)

// AppConfig defines application configuration loaded from files and
// environment.
type AppConfig struct {
	Env      string         `koanf:"env"`
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Identity IdentityConfig `koanf:"identity"`
	Audit    AuditConfig    `koanf:"audit"`
	Email    email.Config   `koanf:"email"`
	Session  SessionConfig  `koanf:"session"`
	Seed     SeedConfig     `koanf:"seed"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
}

type DatabaseConfig struct {
	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`
}

type AuthConfig struct {
	// JWTSecret signs link and session tokens (HS256).
	JWTSecret string `koanf:"jwt_secret"`
	// BaseURL is the externally reachable address magic links point at.
	BaseURL string `koanf:"base_url"`
	// LinkTTLMin bounds how long a sign-in link stays valid.
	LinkTTLMin int `koanf:"link_ttl_min"`
	// SessionTTLHours bounds how long a session token stays valid.
	SessionTTLHours int `koanf:"session_ttl_hours"`
	// DevBypassEmail, when set, lets a login request without an email body
	// establish a session as this identity directly. Development only.
	DevBypassEmail string `koanf:"dev_bypass_email"`
}

type IdentityConfig struct {
	Aliases []identity.AliasPair `koanf:"aliases"`
}

type AuditConfig struct {
	ThrottleWindowMS int  `koanf:"throttle_window_ms"`
	GeoIP            bool `koanf:"geoip"`
}

type SessionConfig struct {
	Backend      string `koanf:"backend"` // memory or valkey
	ValkeyAddr   string `koanf:"valkey_addr"`
	ValkeyPrefix string `koanf:"valkey_prefix"`
}

type SeedConfig struct {
	BootstrapAdminEmail string `koanf:"bootstrap_admin_email"`
	SamplePatents       bool   `koanf:"sample_patents"`
}

var (
	cfgOnce sync.Once
	cfgInst *AppConfig
)

// GetConfig loads and returns the singleton AppConfig. Loading order:
// 1) config/config.yaml (optional)
// 2) config/config.<APP_ENV>.yaml (optional), APP_ENV defaults to "local"
// 3) Environment variables with prefix PV_ mapped using __ as nested
// separator, e.g. PV_DATABASE__DSN.
func GetConfig() *AppConfig {
	cfgOnce.Do(func() {
		cfgInst = LoadConfig()
	})
	return cfgInst
}

// LoadConfig reads configuration fresh, bypassing the singleton. Tests use
// this to avoid cross-test state.
func LoadConfig() *AppConfig {
	k := koanf.New(".")

	configDir := os.Getenv("CONFIG_DIR")
	if configDir == "" {
		configDir = "config"
	}
	loadFiles := strings.EqualFold(os.Getenv("APP_CONFIG_FILES"), "1") || strings.EqualFold(os.Getenv("APP_CONFIG_FILES"), "true")

	envName := os.Getenv("APP_ENV")
	if envName == "" {
		envName = "local"
	}

	if loadFiles {
		for _, name := range []string{"config.yaml", "config." + envName + ".yaml"} {
			path := filepath.Join(configDir, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				log.Printf("config: failed loading %s: %v", path, err)
			}
		}
	}

	_ = k.Load(env.Provider("PV_", ".", func(s string) string {
		// PV_DATABASE__DSN -> database.dsn
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "PV_")), "__", ".")
	}), nil)

	var c AppConfig
	if err := k.Unmarshal("", &c); err != nil {
		log.Printf("config: unmarshal error: %v", err)
	}
	if c.Env == "" {
		c.Env = envName
	}
	applyDefaults(&c)
	return &c
}

func applyDefaults(c *AppConfig) {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Auth.BaseURL == "" {
		c.Auth.BaseURL = "http://localhost:8080"
	}
	if c.Auth.LinkTTLMin <= 0 {
		c.Auth.LinkTTLMin = 15
	}
	if c.Auth.SessionTTLHours <= 0 {
		c.Auth.SessionTTLHours = 12
	}
	if c.Audit.ThrottleWindowMS <= 0 {
		c.Audit.ThrottleWindowMS = 2000
	}
	if c.Session.Backend == "" {
		c.Session.Backend = "memory"
	}
}

// ThrottleWindow returns the audit throttle window as a duration.
func (c *AppConfig) ThrottleWindow() time.Duration {
	return time.Duration(c.Audit.ThrottleWindowMS) * time.Millisecond
}

// LinkTTL returns the magic-link validity window.
func (c *AppConfig) LinkTTL() time.Duration {
	return time.Duration(c.Auth.LinkTTLMin) * time.Minute
}

// SessionTTL returns the session validity window.
func (c *AppConfig) SessionTTL() time.Duration {
	return time.Duration(c.Auth.SessionTTLHours) * time.Hour
}
