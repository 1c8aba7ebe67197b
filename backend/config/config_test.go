package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.JWT.TTL != 24*time.Hour {
		t.Errorf("jwt ttl = %v, want 24h", cfg.JWT.TTL)
	}
	if !cfg.UsesDefaultSecret() {
		t.Errorf("expected default secret when none configured")
	}
	if cfg.DB.Driver != "mysql" {
		t.Errorf("driver = %q, want mysql", cfg.DB.Driver)
	}
	if cfg.Auth.BcryptCost != 10 {
		t.Errorf("bcrypt cost = %d, want 10", cfg.Auth.BcryptCost)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte(`
server:
  port: 8088
  base_path: /api/
db:
  driver: sqlite
  path: /tmp/ratings.db
jwt:
  secret: from-file
  ttl: 2h
log:
  level: debug
`)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("STORE_RATING_JWT_SECRET", "from-env")
	t.Setenv("STORE_RATING_AUTH_LOGIN_MAX_FAILURES", "3")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8088 {
		t.Errorf("port = %d, want 8088", cfg.Server.Port)
	}
	if cfg.Server.BasePath != "/api" {
		t.Errorf("base path = %q, want /api", cfg.Server.BasePath)
	}
	if cfg.DB.Driver != "sqlite" || cfg.DB.Path != "/tmp/ratings.db" {
		t.Errorf("db = %+v", cfg.DB)
	}
	if cfg.JWT.Secret != "from-env" {
		t.Errorf("secret = %q, env should win over file", cfg.JWT.Secret)
	}
	if cfg.JWT.TTL != 2*time.Hour {
		t.Errorf("ttl = %v, want 2h", cfg.JWT.TTL)
	}
	if cfg.Auth.LoginMaxFailures != 3 {
		t.Errorf("login max failures = %d, want 3", cfg.Auth.LoginMaxFailures)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestLoadLegacyEnvNames(t *testing.T) {
	t.Setenv("JWT_SECRET", "legacy")
	t.Setenv("PORT", "7000")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.JWT.Secret != "legacy" {
		t.Errorf("secret = %q, want legacy", cfg.JWT.Secret)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("port = %d, want 7000", cfg.Server.Port)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_RATING_DB_DRIVER", "oracle")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadClampsLoginThrottle(t *testing.T) {
	t.Setenv("STORE_RATING_AUTH_LOGIN_MAX_FAILURES", "0")
	t.Setenv("STORE_RATING_AUTH_LOGIN_WINDOW", "-1m")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.LoginMaxFailures != 5 {
		t.Errorf("login max failures = %d, want 5", cfg.Auth.LoginMaxFailures)
	}
	if cfg.Auth.LoginWindow != 15*time.Minute {
		t.Errorf("login window = %v, want 15m", cfg.Auth.LoginWindow)
	}
}
