package server

import "testing"

func TestLoadConfigAppliesEnvOverrides(t *testing.T) {
	t.Setenv("APP_CONFIG_FILES", "")
	t.Setenv("PV_SERVER__ADDR", ":9999")
	t.Setenv("PV_DATABASE__DSN", "postgres://envhost:5432/envdb")
	t.Setenv("PV_AUTH__JWT_SECRET", "secret-from-env")
	t.Setenv("PV_SESSION__BACKEND", "valkey")

	cfg := LoadConfig()

	if cfg.Server.Addr != ":9999" {
		t.Errorf("PV_SERVER__ADDR not applied: addr = %q", cfg.Server.Addr)
	}
	if cfg.Database.DSN != "postgres://envhost:5432/envdb" {
		t.Errorf("PV_DATABASE__DSN not applied: dsn = %q", cfg.Database.DSN)
	}
	if cfg.Auth.JWTSecret != "secret-from-env" {
		t.Errorf("PV_AUTH__JWT_SECRET not applied: secret = %q", cfg.Auth.JWTSecret)
	}
	if cfg.Session.Backend != "valkey" {
		t.Errorf("PV_SESSION__BACKEND not applied: backend = %q", cfg.Session.Backend)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_CONFIG_FILES", "")
	t.Setenv("APP_ENV", "")

	cfg := LoadConfig()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("default addr = %q", cfg.Server.Addr)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("default driver = %q", cfg.Database.Driver)
	}
	if cfg.Auth.LinkTTLMin != 15 || cfg.Auth.SessionTTLHours != 12 {
		t.Errorf("default ttls = %d min / %d h", cfg.Auth.LinkTTLMin, cfg.Auth.SessionTTLHours)
	}
	if cfg.Env != "local" {
		t.Errorf("default env = %q", cfg.Env)
	}
}
